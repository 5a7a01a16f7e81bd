package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"property-finder/config"
	"property-finder/services"
	"property-finder/session"
	"property-finder/utils"
)

const sampleCSV = "Address,City,Price,SqFtTotFn,Bedrooms Total,Bathrooms Total,Property Type,MLS #,DOM,Pics\n" +
	"\"123 Main St\",Nashua,\"$300,000\",\"1,500\",3,2,Single Family,4911234,12,\n" +
	"\"9 Oak Ave\",Concord,\"$450,000\",\"2,200\",2,1,Condo,4915678,3,http://img.example/oak.jpg\n"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := utils.NewLogger()
	cfg := &config.Config{
		ListenAddr:   ":0",
		ContactEmail: "agent@brokerage.example",
		MaxUploadMB:  4,
		SessionLimit: 10,
	}
	return New(cfg, logger,
		session.NewStore(cfg.SessionLimit, logger),
		services.NewNormalizer(logger),
		services.NewEngine(logger))
}

func uploadCSV(t *testing.T, handler http.Handler, csvBody string) uploadResponse {
	t.Helper()
	rec := doUpload(t, handler, csvBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp
}

func doUpload(t *testing.T, handler http.Handler, csvBody string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "export.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvBody))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func getJSON(t *testing.T, handler http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func TestUploadAndQueryFlow(t *testing.T) {
	handler := newTestServer(t).Router()
	resp := uploadCSV(t, handler, sampleCSV)

	require.Equal(t, 2, resp.Count)
	require.Equal(t, float64(300000), resp.Stats.Price.Min)
	require.Equal(t, float64(450000), resp.Stats.Price.Max)
	require.Equal(t, []string{"Concord", "Nashua"}, resp.Stats.Cities)

	var result resultJSON
	rec := getJSON(t, handler,
		"/api/datasets/"+resp.SessionID+"/listings?max_price=400000", &result)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, result.Count)
	require.Equal(t, "123 Main St", result.Listings[0].Address)
}

func TestQueryZeroMatchesIsOK(t *testing.T) {
	handler := newTestServer(t).Router()
	resp := uploadCSV(t, handler, sampleCSV)

	var result resultJSON
	rec := getJSON(t, handler,
		"/api/datasets/"+resp.SessionID+"/listings?min_price=9000000", &result)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0, result.Count)
	require.Empty(t, result.Listings)
}

func TestQuerySortAndSearchParams(t *testing.T) {
	handler := newTestServer(t).Router()
	resp := uploadCSV(t, handler, sampleCSV)

	var result resultJSON
	getJSON(t, handler, "/api/datasets/"+resp.SessionID+"/listings?sort=price_desc", &result)
	require.Equal(t, float64(450000), result.Listings[0].Price)

	getJSON(t, handler, "/api/datasets/"+resp.SessionID+"/listings?q=oak", &result)
	require.Equal(t, 1, result.Count)
	require.Equal(t, "9 Oak Ave", result.Listings[0].Address)

	getJSON(t, handler, "/api/datasets/"+resp.SessionID+"/listings?cities=Concord", &result)
	require.Equal(t, 1, result.Count)
}

func TestListingImageFallback(t *testing.T) {
	handler := newTestServer(t).Router()
	resp := uploadCSV(t, handler, sampleCSV)

	var result resultJSON
	getJSON(t, handler, "/api/datasets/"+resp.SessionID+"/listings?sort=price_asc", &result)
	require.Equal(t, 2, result.Count)

	// The Nashua row has an empty Pics cell and gets the placeholder.
	require.Contains(t, result.Listings[0].ImageURL, "unsplash.com")
	require.Equal(t, "http://img.example/oak.jpg", result.Listings[1].ImageURL)
}

func TestUnknownSessionIs404(t *testing.T) {
	handler := newTestServer(t).Router()

	rec := getJSON(t, handler, "/api/datasets/nope/listings", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = getJSON(t, handler, "/api/datasets/nope/stats", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnparseableUploadIs422(t *testing.T) {
	handler := newTestServer(t).Router()

	rec := doUpload(t, handler, "Foo,Bar\n1,2\n")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Error, "load error")
}

func TestOversizeUploadIs413(t *testing.T) {
	srv := newTestServer(t)
	srv.cfg.MaxUploadMB = 1
	handler := srv.Router()

	// ~2MB body against a 1MB cap.
	bigCSV := "Address,City,Price\n" + strings.Repeat("1 Elm St,Nashua,100000\n", 100_000)
	rec := doUpload(t, handler, bigCSV)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Error, "1MB limit")
}

func TestStatsOmitsDisabledDimensions(t *testing.T) {
	handler := newTestServer(t).Router()
	resp := uploadCSV(t, handler, "Address,City,Price\n1 Elm St,Nashua,100000\n")

	var stats statsJSON
	rec := getJSON(t, handler, "/api/datasets/"+resp.SessionID+"/stats", &stats)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, stats.SqFt)
	require.Nil(t, stats.DaysOnMarket)
	require.False(t, stats.HasBedrooms)
}

func TestReplaceDataset(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.Router()
	resp := uploadCSV(t, handler, sampleCSV)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "export.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Address,City,Price\n5 Pine St,Dover,150000\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/datasets/"+resp.SessionID, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result resultJSON
	getJSON(t, handler, "/api/datasets/"+resp.SessionID+"/listings", &result)
	require.Equal(t, 1, result.Count)
	require.Equal(t, "5 Pine St", result.Listings[0].Address)
}

func TestContactLink(t *testing.T) {
	handler := newTestServer(t).Router()
	resp := uploadCSV(t, handler, sampleCSV)

	var contact contactResponse
	rec := getJSON(t, handler,
		"/api/datasets/"+resp.SessionID+"/listings/4911234/contact", &contact)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, contact.Mailto, "mailto:agent@brokerage.example?")
	require.Contains(t, contact.Mailto, "MLS%23%204911234")
	require.Equal(t, "123 Main St", contact.Address)

	rec = getJSON(t, handler,
		"/api/datasets/"+resp.SessionID+"/listings/0000000/contact", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
