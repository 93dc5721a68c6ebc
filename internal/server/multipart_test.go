package server

import (
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

// newMultipart writes fields and one file part to w and returns the content type.
func newMultipart(t *testing.T, w io.Writer, fields map[string]string, fileField, fileName, content string) string {
	t.Helper()

	mw := multipart.NewWriter(w)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	part, err := mw.CreateFormFile(fileField, fileName)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return mw.FormDataContentType()
}
