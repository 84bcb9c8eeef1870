package media

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("PDF By Content Type", func(t *testing.T) {
		assert.Equal(t, "pdf", Classify("notes.pdf", "application/pdf", []byte("%PDF-1.4")))
	})

	t.Run("PDF By Extension", func(t *testing.T) {
		assert.Equal(t, "pdf", Classify("notes.PDF", "application/octet-stream", []byte("%PDF-1.4")))
	})

	t.Run("Decodable Image", func(t *testing.T) {
		assert.Equal(t, "png", Classify("pic.png", "image/png", pngBytes(t)))
	})

	t.Run("Image Label Wins Over Extension", func(t *testing.T) {
		// a PNG mislabeled jpeg still decodes as png
		assert.Equal(t, "png", Classify("pic.jpg", "image/jpeg", pngBytes(t)))
	})

	t.Run("Undecodable Image Keeps Subtype", func(t *testing.T) {
		assert.Equal(t, "jpeg", Classify("pic.jpg", "image/jpeg", []byte("not an image")))
	})

	t.Run("Other Types Pass Through", func(t *testing.T) {
		assert.Equal(t, "text/plain", Classify("readme.txt", "text/plain", []byte("hello")))
	})
}

func TestHTTPGatewayUpload(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, r.ParseMultipartForm(1<<20))
			_, header, err := r.FormFile("file")
			require.NoError(t, err)
			assert.Equal(t, "pic.png", header.Filename)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"secure_url":"https://cdn.example.com/pic.png"}`))
		}))
		defer srv.Close()

		g := NewHTTPGateway(srv.URL, "test-key")
		res, err := g.Upload(context.Background(), UploadInput{
			Filename:    "pic.png",
			ContentType: "image/png",
			Content:     pngBytes(t),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/pic.png", res.URL)
		assert.Equal(t, "png", res.FileType)
		assert.Equal(t, "pic.png", res.OriginalName)
		assert.Equal(t, "Bearer test-key", gotAuth)
	})

	t.Run("Plain URL Field", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"url":"https://cdn.example.com/doc.pdf"}`))
		}))
		defer srv.Close()

		g := NewHTTPGateway(srv.URL, "")
		res, err := g.Upload(context.Background(), UploadInput{
			Filename:    "doc.pdf",
			ContentType: "application/pdf",
			Content:     []byte("%PDF-1.4"),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/doc.pdf", res.URL)
		assert.Equal(t, "pdf", res.FileType)
	})

	t.Run("Host Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		g := NewHTTPGateway(srv.URL, "")
		_, err := g.Upload(context.Background(), UploadInput{
			Filename: "doc.pdf",
			Content:  []byte("%PDF-1.4"),
		})
		assert.Error(t, err)
	})

	t.Run("Missing URL In Response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		g := NewHTTPGateway(srv.URL, "")
		_, err := g.Upload(context.Background(), UploadInput{
			Filename: "doc.pdf",
			Content:  []byte("%PDF-1.4"),
		})
		assert.Error(t, err)
	})

	t.Run("Empty File Rejected", func(t *testing.T) {
		g := NewHTTPGateway("http://unused.invalid", "")
		_, err := g.Upload(context.Background(), UploadInput{Filename: "x"})
		assert.Error(t, err)
	})
}
