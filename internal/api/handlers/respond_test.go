package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondConflict(rec, "время уже занято")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ErrorResponse{Code: http.StatusConflict, Message: "время уже занято"}, resp)
}

func TestRespondNoContent(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondNoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDecodeOptionalJSON(t *testing.T) {
	var dst struct {
		Override bool `json:"override"`
	}

	t.Run("Empty Body", func(t *testing.T) {
		assert.NoError(t, DecodeOptionalJSON(httptest.NewRequest(http.MethodPatch, "/", nil), &dst))
		assert.False(t, dst.Override)
	})

	t.Run("Body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"override":true}`))
		assert.NoError(t, DecodeOptionalJSON(req, &dst))
		assert.True(t, dst.Override)
	})

	t.Run("Unknown Field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"force":true}`))
		assert.Error(t, DecodeOptionalJSON(req, &dst))
	})
}

func TestPathInt64(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{name: "Valid", value: "42", want: 42},
		{name: "Zero", value: "0", wantErr: true},
		{name: "Negative", value: "-1", wantErr: true},
		{name: "Not A Number", value: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"bookingId": tt.value})

			got, err := PathInt64(req, "bookingId")

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryTime(t *testing.T) {
	got, err := QueryTime(httptest.NewRequest(http.MethodGet, "/?from=2025-06-01T10:00:00%2B03:00", nil), "from")
	require.NoError(t, err)
	assert.Equal(t, 7, got.UTC().Hour())

	missing, err := QueryTime(httptest.NewRequest(http.MethodGet, "/", nil), "from")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	_, err = QueryTime(httptest.NewRequest(http.MethodGet, "/?from=2025-06-01", nil), "from")
	assert.Error(t, err)
}
