package paperless

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"paperarchive/internal/ingest"
	"paperarchive/internal/logging"
	"paperarchive/internal/services"
)

const uploadPath = "/api/documents/post_document/"

// Upload posts doc to the backend's consumption endpoint. The title and
// archive serial number both carry the document id so the backend record can
// be found again from the paper copy. It returns the backend's task id.
func (c *Client) Upload(ctx context.Context, doc ingest.Document) (string, error) {
	body, contentType, err := uploadForm(doc)
	if err != nil {
		return "", services.Wrap(services.ErrBackend, "paperless", "upload", "build form", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+uploadPath, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	task := strings.TrimSpace(string(resp))
	var decoded string
	if json.Unmarshal(resp, &decoded) == nil {
		task = decoded
	}
	c.logger.Info("document uploaded",
		logging.String(logging.FieldDocumentID, doc.IDString()),
		logging.Int("pages", doc.Pages),
		logging.String("task", task),
	)
	return task, nil
}

func uploadForm(doc ingest.Document) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if err := form.WriteField("title", doc.IDString()); err != nil {
		return nil, "", err
	}
	if err := form.WriteField("archive_serial_number", strconv.FormatUint(uint64(doc.ID), 10)); err != nil {
		return nil, "", err
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="document"; filename="`+doc.IDString()+`.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, err := form.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(doc.Content); err != nil {
		return nil, "", err
	}
	if err := form.Close(); err != nil {
		return nil, "", err
	}
	return &buf, form.FormDataContentType(), nil
}
