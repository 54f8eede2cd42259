package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/StellaShiina/ginadmin/admin"
)

// MultipartOptions limits multipart parsing. Zero means the default.
type MultipartOptions struct {
	// MaxFileSize is the largest accepted file part, in bytes.
	MaxFileSize int64
	// MaxFieldSize is the largest accepted non-file part, in bytes.
	MaxFieldSize int64
	MaxFields    int
	MaxFiles     int
	MaxParts     int
}

const (
	DefaultMaxFileSize  = 10 << 20
	DefaultMaxFieldSize = 1 << 20
	DefaultMaxParts     = 1000
)

var errMultipartLimit = errors.New("multipart limit exceeded")

func (o MultipartOptions) withDefaults() MultipartOptions {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.MaxFieldSize <= 0 {
		o.MaxFieldSize = DefaultMaxFieldSize
	}
	if o.MaxParts <= 0 {
		o.MaxParts = DefaultMaxParts
	}
	return o
}

// parsePayload reads the request as multipart; file parts are keyed by file
// name, fields by field name. When that fails for any reason the already
// parsed body is used instead.
func parsePayload(c *gin.Context, opts MultipartOptions) map[string]any {
	payload, err := parseMultipart(c, opts.withDefaults())
	if err != nil {
		return parsedBody(c)
	}
	return payload
}

func parseMultipart(c *gin.Context, opts MultipartOptions) (map[string]any, error) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		return nil, err
	}

	payload := map[string]any{}
	var parts, fields, files int
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return payload, nil
		}
		if err != nil {
			return nil, err
		}
		parts++
		if parts > opts.MaxParts {
			return nil, fmt.Errorf("%w: more than %d parts", errMultipartLimit, opts.MaxParts)
		}

		if part.FileName() != "" {
			files++
			if opts.MaxFiles > 0 && files > opts.MaxFiles {
				return nil, fmt.Errorf("%w: more than %d files", errMultipartLimit, opts.MaxFiles)
			}
			data, err := readLimited(part, opts.MaxFileSize)
			if err != nil {
				return nil, fmt.Errorf("file %q: %w", part.FileName(), err)
			}
			payload[part.FileName()] = &admin.UploadedFile{
				FieldName:   part.FormName(),
				Filename:    part.FileName(),
				ContentType: part.Header.Get("Content-Type"),
				Data:        data,
			}
			continue
		}

		fields++
		if opts.MaxFields > 0 && fields > opts.MaxFields {
			return nil, fmt.Errorf("%w: more than %d fields", errMultipartLimit, opts.MaxFields)
		}
		value, err := readLimited(part, opts.MaxFieldSize)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", part.FormName(), err)
		}
		payload[part.FormName()] = string(value)
	}
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: larger than %d bytes", errMultipartLimit, limit)
	}
	return data, nil
}

// parsedBody returns the body as decoded by gin: a JSON object for JSON
// requests, form values otherwise. Repeated form keys become []string.
func parsedBody(c *gin.Context) map[string]any {
	payload := map[string]any{}
	if c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(&payload); err != nil {
			return map[string]any{}
		}
		return payload
	}

	if err := c.Request.ParseForm(); err != nil {
		return payload
	}
	for key, values := range c.Request.PostForm {
		switch len(values) {
		case 0:
		case 1:
			payload[key] = values[0]
		default:
			payload[key] = values
		}
	}
	return payload
}
