package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/upload"
	"github.com/dtroode/employee-directory/internal/validation"
)

const multipartMemory = 1 << 20

// readFields collects the submitted fields from a JSON, urlencoded or
// multipart body. For multipart bodies the profile picture, if any, is
// returned as well. maxFileSize is used for the error message when the body
// limit is exceeded; routes without uploads pass 0.
func readFields(c *gin.Context, maxFileSize int64) (validation.Fields, *multipart.FileHeader, error) {
	switch c.ContentType() {
	case gin.MIMEJSON:
		fields, err := readJSONFields(c.Request.Body)
		if err != nil {
			return nil, nil, bodyError(c.Request.Body, err, maxFileSize)
		}
		return fields, nil, nil

	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, nil, bodyError(c.Request.Body, err, maxFileSize)
		}
		return firstValues(c.Request.PostForm), nil, nil

	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			return nil, nil, bodyError(c.Request.Body, err, maxFileSize)
		}
		form := c.Request.MultipartForm
		fh, err := singleFile(form.File)
		if err != nil {
			return nil, nil, err
		}
		return firstValues(form.Value), fh, nil

	default:
		return validation.Fields{}, nil, nil
	}
}

func readJSONFields(body io.Reader) (validation.Fields, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	fields := validation.Fields{}
	if len(bytes.TrimSpace(data)) == 0 {
		return fields, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, apierror.NewErrBadRequest("Invalid request body")
	}

	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			fields[k] = ""
		case string:
			fields[k] = val
		case json.Number:
			fields[k] = val.String()
		case bool:
			fields[k] = strconv.FormatBool(val)
		default:
			encoded, _ := json.Marshal(val)
			fields[k] = string(encoded)
		}
	}
	return fields, nil
}

func firstValues(values map[string][]string) validation.Fields {
	fields := make(validation.Fields, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return fields
}

// singleFile accepts at most one file, under upload.FieldName.
func singleFile(files map[string][]*multipart.FileHeader) (*multipart.FileHeader, error) {
	var found *multipart.FileHeader
	for name, headers := range files {
		if name != upload.FieldName || len(headers) > 1 {
			return nil, apierror.NewErrBadRequest("Unexpected field")
		}
		if len(headers) == 1 {
			found = headers[0]
		}
	}
	return found, nil
}

// bodyError maps a failure to read the body to a client error. The
// multipart reader reports a limit hit inside part headers as a malformed
// header, so body is read once more: a tripped http.MaxBytesReader keeps
// returning its *http.MaxBytesError.
func bodyError(body io.Reader, err error, maxFileSize int64) error {
	if _, ok := apierror.As(err); ok {
		return err
	}
	if !exceedsLimit(err) && body != nil {
		var one [1]byte
		_, readErr := body.Read(one[:])
		err = errors.Join(err, readErr)
	}
	if exceedsLimit(err) {
		if maxFileSize <= 0 {
			return apierror.NewErrBodyTooLarge()
		}
		return apierror.NewErrFileTooLarge(maxFileSize)
	}
	return apierror.NewErrBadRequest("Invalid request body")
}

func exceedsLimit(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
