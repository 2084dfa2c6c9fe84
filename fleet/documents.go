package fleet

import (
	"context"
	"net/url"
	"strconv"

	"drivemate/api"
)

type DocumentsResult struct {
	Outcome
	Documents Documents
}

// FileInput describes one document upload as the picker hands it over: a
// name, whatever type information the platform declared, and the bytes.
type FileInput struct {
	Name     string
	Type     string
	MimeType string
	Content  []byte
}

// LoadDocuments fetches the driver's compliance document URLs.
func (s *Services) LoadDocuments(ctx context.Context, driverID int) DocumentsResult {
	query := url.Values{}
	query.Set("driver_id", strconv.Itoa(driverID))

	env, err := s.client.Get(ctx, "/driver/documents", query)
	if err != nil {
		return DocumentsResult{Outcome: failOutcome(err)}
	}
	if !env.Success {
		return DocumentsResult{Outcome: envelopeFail(env)}
	}

	docs := Documents{}
	if data := env.DataMap(); data != nil {
		raw := data
		if docObj, ok := data["documents"].(map[string]any); ok {
			raw = docObj
		}
		docs = NormalizeDocuments(raw)
	}
	return DocumentsResult{Outcome: okOutcome(env.Message), Documents: docs}
}

// UpdateDocuments uploads one file per recognized document key as multipart
// form-data. Unrecognized keys in the input are ignored. MIME types are
// inferred per file and extensionless names get one matching the type.
func (s *Services) UpdateDocuments(ctx context.Context, driverID int, files map[string]FileInput) DocumentsResult {
	if len(files) == 0 {
		return DocumentsResult{Outcome: Outcome{Success: false, Message: "no documents to upload"}}
	}

	var parts []api.File
	for _, key := range DocumentKeys {
		input, ok := files[key]
		if !ok {
			continue
		}
		mime := InferMIME(input.Name, input.Type, input.MimeType)
		parts = append(parts, api.File{
			Field:   key,
			Name:    EnsureExtension(input.Name, mime),
			MIME:    mime,
			Content: input.Content,
		})
	}
	if len(parts) == 0 {
		return DocumentsResult{Outcome: Outcome{Success: false, Message: "no recognized document keys in upload"}}
	}

	fields := map[string]string{"driver_id": strconv.Itoa(driverID)}
	env, err := s.client.PostMultipart(ctx, "/driver/documents/update", fields, parts)
	if err != nil {
		return DocumentsResult{Outcome: failOutcome(err)}
	}
	if !env.Success {
		return DocumentsResult{Outcome: envelopeFail(env)}
	}

	docs := Documents{}
	if data := env.DataMap(); data != nil {
		raw := data
		if docObj, ok := data["documents"].(map[string]any); ok {
			raw = docObj
		}
		docs = NormalizeDocuments(raw)
	}
	return DocumentsResult{Outcome: okOutcome(env.Message), Documents: docs}
}
