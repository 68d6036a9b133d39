package handlers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/maria-crm/internal/infra/http/handlers"
	"github.com/xavierca1/maria-crm/internal/infra/http/middleware"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

func multipartRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/import/contacts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, chi.NewRouteContext())
	return req.WithContext(middleware.WithActor(ctx, agent))
}

func TestImportContacts(t *testing.T) {
	t.Run("Rows Forwarded", func(t *testing.T) {
		importer := new(MockContactImporter)
		h := handlers.NewContactHandler(nil, importer)

		importer.On("Execute", mock.Anything, mock.MatchedBy(func(in usecase.ImportContactsInput) bool {
			return in.ActorID == agent.ID && len(in.Rows) == 2 && in.Rows[0]["full_name"] == "Sara Ahmadi"
		})).Return(&usecase.ImportContactsOutput{
			Inserted: 1,
			Failed:   1,
			Errors:   []usecase.ImportRowError{{Row: 3, Message: "full_name and phone are required"}},
		}, nil)

		csv := "Full_Name,Phone\nSara Ahmadi,09121234567\n,\n"
		w := httptest.NewRecorder()
		h.Import(w, multipartRequest(t, "file", "contacts.csv", csv))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"inserted":1,"failed":1,"errors":[{"row":3,"message":"full_name and phone are required"}]}`,
			string(decode(t, w).Data))
		importer.AssertExpectations(t)
	})

	t.Run("Missing File", func(t *testing.T) {
		importer := new(MockContactImporter)
		h := handlers.NewContactHandler(nil, importer)

		w := httptest.NewRecorder()
		h.Import(w, multipartRequest(t, "", "", ""))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "Valid CSV file is required", decode(t, w).Error.Details["file"])
		importer.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})
}
