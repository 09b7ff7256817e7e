package photo

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	router *gin.Engine
	store  *memoryStore
	signer *fakeSigner
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemoryStore()
	signer := &fakeSigner{}
	router := gin.New()
	RegisterRoutes(router.Group(""),
		NewIssuer(signer, "photos", "uploads/", 5*time.Minute),
		NewRecorder(store, "uploads/", 2),
		newTestGallery(store, signer),
	)
	return &testAPI{router: router, store: store, signer: signer}
}

func (a *testAPI) do(method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func TestUploadURLEndpoint(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(http.MethodGet, "/upload-url?filename=cat.png&contentType=image/png", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uploads/cat.png", body["key"])
	assert.Equal(t, "image/png", body["contentType"])
	assert.Contains(t, body["uploadUrl"], "uploads/cat.png")
	assert.Equal(t, "Upload URL generated successfully", body["message"])
}

func TestUploadURLEndpointAcceptsJSONBody(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(http.MethodPost, "/upload-url", `{"filename":"dog.jpg"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uploads/dog.jpg", body["key"])
	assert.Equal(t, DefaultContentType, body["contentType"])
}

func TestUploadURLEndpointQueryContentTypeWinsOverBody(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(http.MethodPost, "/upload-url?contentType=image/png", `{"filename":"dog.jpg"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uploads/dog.jpg", body["key"])
	assert.Equal(t, "image/png", body["contentType"])

	w, body = api.do(http.MethodPost, "/upload-url?contentType=image/png", `{"filename":"dog.jpg","contentType":"image/gif"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", body["contentType"])
}

func TestUploadURLEndpointRejectsBadInput(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(http.MethodGet, "/upload-url", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"filename"}, body["fields"])

	w, _ = api.do(http.MethodGet, "/upload-url?filename=../../etc/passwd", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodGet, "/upload-url?filename=%20cat.jpg%20", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = api.do(http.MethodPost, "/upload-url", `{"filename":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid JSON format in request body.", body["error"])
}

func TestUploadURLEndpointSigningFailure(t *testing.T) {
	api := newTestAPI(t)
	api.signer.putErr = errors.New("credentials expired")

	w, body := api.do(http.MethodGet, "/upload-url?filename=a.jpg", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate upload URL", body["error"])
	assert.Equal(t, "credentials expired", body["details"])
}

func TestPhotosEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(3, galleryBase)
	api.signer.missing = map[string]bool{"uploads/photo-0.jpg": true}

	w, body := api.do(http.MethodGet, "/photos?limit=10&generateUrls=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, body["count"])
	assert.NotContains(t, body, "nextCursor")

	photos, ok := body["photos"].([]any)
	require.True(t, ok)
	require.Len(t, photos, 3)

	first := photos[0].(map[string]any)
	assert.Equal(t, "uploads/photo-2.jpg", first["photo_name"])
	assert.NotNil(t, first["viewUrl"])

	last := photos[2].(map[string]any)
	assert.Equal(t, "uploads/photo-0.jpg", last["photo_name"])
	assert.Contains(t, last, "viewUrl")
	assert.Nil(t, last["viewUrl"])
}

func TestPhotosEndpointOnlyExactTrueGeneratesURLs(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(1, galleryBase)

	for _, v := range []string{"TRUE", "1", "yes", ""} {
		w, _ := api.do(http.MethodGet, "/photos?generateUrls="+v, "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Zero(t, api.signer.calls)
}

func TestPhotosEndpointPagination(t *testing.T) {
	api := newTestAPI(t)
	api.store.seed(3, galleryBase)

	w, body := api.do(http.MethodGet, "/photos?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	next, ok := body["nextCursor"].(string)
	require.True(t, ok)

	w, body = api.do(http.MethodGet, "/photos?limit=2&cursor="+next, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])

	w, body = api.do(http.MethodGet, "/photos?cursor=%21%21", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"cursor"}, body["fields"])
}

func TestPhotosEndpointStoreFailure(t *testing.T) {
	api := newTestAPI(t)
	api.store.listErr = errors.New("pool closed")

	w, body := api.do(http.MethodGet, "/photos", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch photos", body["error"])
	assert.Equal(t, "pool closed", body["details"])
}

func TestObjectCreatedEndpoint(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(http.MethodPost, "/events/object-created", minioWebhookBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"uploads/my photo.jpg"}, body["recorded"])
	assert.Len(t, api.store.records, 1)

	w, _ = api.do(http.MethodPost, "/events/object-created", "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestObjectCreatedEndpointWriteFailure(t *testing.T) {
	api := newTestAPI(t)
	api.store.failKeys["uploads/my photo.jpg"] = errors.New("disk full")

	w, body := api.do(http.MethodPost, "/events/object-created", minioWebhookBody)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to store metadata", body["error"])
	assert.Len(t, body["failed"], 1)
}

func TestObjectCreatedEndpointBadEventTimeKeepsSiblings(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(http.MethodPost, "/events/object-created", mixedEventTimeBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"uploads/good.jpg"}, body["recorded"])
	assert.Len(t, body["failed"], 1)
	assert.Len(t, api.store.records, 1)
}
