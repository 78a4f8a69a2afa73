// Package placement decides which box holds a folder and which folder holds
// a document, without any stored index.
//
// An ArchiveMap is the universe of box and folder identifiers derived from
// the archive secret. Placement uses rendezvous (highest random weight)
// selection with the minimum weight winning: every candidate is weighed
// against the subject and the lightest one is chosen, with ties broken by the
// candidate's own byte ordering. Removing a candidate only relocates the
// subjects that candidate previously won.
package placement
