package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"paperroom/access-api/model"
	"paperroom/access-api/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestS3 builds a client with static credentials. Presigning is a pure
// signature computation, so serve tests need no endpoint at all; upload
// tests point it at a local httptest server.
func newTestS3(endpoint string) *storage.S3Client {
	client := s3.NewFromConfig(aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
	}, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &storage.S3Client{
		C:          client,
		Presigner:  s3.NewPresignClient(client),
		Uploader:   manager.NewUploader(client),
		Bucket:     aws.String("test-bucket"),
		PresignTTL: 5 * time.Minute,
	}
}

func TestDocumentServeLinkView(t *testing.T) {
	a, router, _ := newTestAPI(t)

	require.NoError(t, a.DB.Create(&model.Document{ID: "D1", OwnerID: "owner", S3Key: "objects/doc-one"}).Error)
	require.NoError(t, a.DB.Create(&model.Link{ID: "L1", DocumentID: "D1"}).Error)
	require.NoError(t, a.DB.Create(&model.View{ID: "V1", Identifier: "L1", TargetKind: "link", CreatedAt: time.Now()}).Error)

	rec := doJSON(t, router, http.MethodGet, "/api/documents/V1", nil)
	require.Equal(t, http.StatusFound, rec.Code)

	loc := rec.Header().Get("Location")
	assert.Contains(t, loc, "objects/doc-one")
	assert.Contains(t, loc, "X-Amz-Signature")
}

func TestDocumentServeDataroomView(t *testing.T) {
	a, router, _ := newTestAPI(t)

	require.NoError(t, a.DB.Create(&model.Dataroom{ID: "R1", OwnerID: "owner"}).Error)
	require.NoError(t, a.DB.Create(&model.Document{ID: "D1", OwnerID: "owner", S3Key: "objects/room-doc"}).Error)
	require.NoError(t, a.DB.Create(&model.View{ID: "V1", Identifier: "R1", TargetKind: "dataroom", CreatedAt: time.Now()}).Error)

	rec := doJSON(t, router, http.MethodGet, "/api/documents/V1?documentID=D1", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "objects/room-doc")
}

func TestDocumentServeDataroomRejectsForeignDocument(t *testing.T) {
	a, router, _ := newTestAPI(t)

	require.NoError(t, a.DB.Create(&model.Dataroom{ID: "R1", OwnerID: "owner"}).Error)
	require.NoError(t, a.DB.Create(&model.Document{ID: "SECRET", OwnerID: "someone-else", S3Key: "objects/private"}).Error)
	require.NoError(t, a.DB.Create(&model.View{ID: "V1", Identifier: "R1", TargetKind: "dataroom", CreatedAt: time.Now()}).Error)

	// A view on one dataroom must not fetch documents belonging to
	// another owner, no matter what documentID the client asks for.
	rec := doJSON(t, router, http.MethodGet, "/api/documents/V1?documentID=SECRET", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"))

	body := decodeBody(t, rec)
	assert.Equal(t, "Object not found", body["error"])
}

func TestDocumentServeDataroomRequiresDocumentID(t *testing.T) {
	a, router, _ := newTestAPI(t)

	require.NoError(t, a.DB.Create(&model.Dataroom{ID: "R1", OwnerID: "owner"}).Error)
	require.NoError(t, a.DB.Create(&model.View{ID: "V1", Identifier: "R1", TargetKind: "dataroom", CreatedAt: time.Now()}).Error)

	rec := doJSON(t, router, http.MethodGet, "/api/documents/V1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentServeArchivedLinkStopsServing(t *testing.T) {
	a, router, _ := newTestAPI(t)

	require.NoError(t, a.DB.Create(&model.Document{ID: "D1", OwnerID: "owner", S3Key: "objects/gone"}).Error)
	require.NoError(t, a.DB.Create(&model.Link{ID: "L1", DocumentID: "D1"}).Error)
	require.NoError(t, a.DB.Create(&model.View{ID: "V1", Identifier: "L1", TargetKind: "link", CreatedAt: time.Now()}).Error)

	// Archive after the grant: the existing view stops serving.
	require.NoError(t, a.DB.Model(&model.Link{}).Where("id = ?", "L1").Update("is_archived", true).Error)

	rec := doJSON(t, router, http.MethodGet, "/api/documents/V1", nil)
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestDocumentUploadSniffsContentType(t *testing.T) {
	a, router, _ := newTestAPI(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"0"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	a.S3 = newTestS3(srv.URL)

	require.NoError(t, a.DB.Create(&model.User{ID: "owner", Email: "owner@example.com"}).Error)

	// PNG bytes claimed as text/plain by the client.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="notes.txt"`)
	hdr.Set("Content-Type", "text/plain")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(authCookie(t, "owner"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	docID, ok := body["documentID"].(string)
	require.True(t, ok)

	var doc model.Document
	require.NoError(t, a.DB.Where("id = ?", docID).First(&doc).Error)
	assert.Equal(t, "image/png", doc.ContentType)
}
