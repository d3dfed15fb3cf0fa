package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uAvicii/0718/internal/domain"
	"github.com/uAvicii/0718/internal/service/memory"
)

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestMemoryAPI_CreateThenGet(t *testing.T) {
	t.Parallel()

	_, api := newTestAPI(t, newMemRepo(), nil)

	rec := do(t, api, http.MethodPost, "/api/memories", map[string]any{
		"title":    "  第一次看极光 ",
		"content":  "绿色的光带在夜空中舞动",
		"date":     "2023-12-20",
		"category": "travel",
		"mood":     "excited",
		"location": "挪威特罗姆瑟",
		"tags":     []string{"旅行", " 极光", "旅行", ""},
		"images":   []string{"https://img.example/aurora.jpg"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[memoryResponse](t, rec)
	assert.Equal(t, "第一次看极光", created.Title)
	assert.Equal(t, []string{"旅行", "极光"}, created.Tags)
	assert.Equal(t, []string{}, created.People)
	assert.Equal(t, "2023-12-20", created.Date.Format(domain.DateLayout))
	require.NotNil(t, created.Mood)
	assert.Equal(t, "excited", *created.Mood)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Equal(t, "/api/memories/"+created.ID, rec.Header().Get("Location"))

	rec = do(t, api, http.MethodGet, "/api/memories/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"date":"2023-12-20"`)
}

func TestMemoryAPI_CreateAcceptsRFC3339Date(t *testing.T) {
	t.Parallel()

	_, api := newTestAPI(t, newMemRepo(), nil)

	rec := do(t, api, http.MethodPost, "/api/memories", map[string]any{
		"title": "t", "content": "c", "date": "2024-03-05T22:10:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[memoryResponse](t, rec)
	assert.Equal(t, "2024-03-05", got.Date.Format(domain.DateLayout))
	assert.Equal(t, "other", got.Category)
}

func TestMemoryAPI_CreateValidation(t *testing.T) {
	t.Parallel()

	_, api := newTestAPI(t, newMemRepo(), nil)

	rec := do(t, api, http.MethodPost, "/api/memories", map[string]any{
		"title": "   ", "content": "", "category": "travel",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[errorResponse](t, rec)
	fields := make([]string, len(resp.Fields))
	for i, f := range resp.Fields {
		fields[i] = f.Field
	}
	assert.ElementsMatch(t, []string{"title", "content", "date"}, fields)
}

func TestMemoryAPI_BadBodies(t *testing.T) {
	t.Parallel()

	_, api := newTestAPI(t, newMemRepo(), nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"title":`},
		{name: "unknown field", body: `{"title":"t","content":"c","date":"2024-01-01","secret":1}`},
		{name: "bad date", body: `{"title":"t","content":"c","date":"01/02/2024"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, api, http.MethodPost, "/api/memories", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.True(t, strings.HasPrefix(decode[errorResponse](t, rec).Error, "invalid request body"))
		})
	}
}

func TestMemoryAPI_List(t *testing.T) {
	t.Parallel()

	aurora := seedMemory("极光之夜", day(2023, 12, 20), domain.MoodExcited, domain.CategoryTravel, []string{"旅行"}, nil)
	family := seedMemory("家庭聚餐", day(2024, 2, 10), domain.MoodHappy, domain.CategoryFamily, []string{"家人"}, nil)
	_, api := newTestAPI(t, newMemRepo(aurora, family), nil)

	tests := []struct {
		name   string
		query  string
		wantID []uuid.UUID
	}{
		{name: "all newest first", query: "", wantID: []uuid.UUID{family.ID, aurora.ID}},
		{name: "by tag", query: "?tag=" + url.QueryEscape("旅行"), wantID: []uuid.UUID{aurora.ID}},
		{name: "by category", query: "?category=family", wantID: []uuid.UUID{family.ID}},
		{name: "by mood", query: "?mood=excited", wantID: []uuid.UUID{aurora.ID}},
		{name: "by year", query: "?year=2024", wantID: []uuid.UUID{family.ID}},
		{name: "search", query: "?q=CONTENT", wantID: []uuid.UUID{family.ID, aurora.ID}},
		{name: "combined no match", query: "?tag=" + url.QueryEscape("旅行") + "&year=2024", wantID: []uuid.UUID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, api, http.MethodGet, "/api/memories"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			got := decode[[]memoryResponse](t, rec)
			ids := make([]uuid.UUID, len(got))
			for i, m := range got {
				ids[i] = uuid.MustParse(m.ID)
			}
			assert.Equal(t, tt.wantID, ids)
		})
	}
}

func TestMemoryAPI_Cover(t *testing.T) {
	t.Parallel()

	withImages := seedMemory("樱花", day(2023, 4, 5), "", domain.CategoryLove, nil,
		[]string{"https://img.example/1.jpg", "https://img.example/2.jpg"})
	plain := seedMemory("日记", day(2023, 4, 6), "", domain.CategoryLife, nil, nil)
	_, api := newTestAPI(t, newMemRepo(withImages, plain), nil)

	rec := do(t, api, http.MethodGet, "/api/memories/"+withImages.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[memoryResponse](t, rec)
	require.NotNil(t, got.Cover)
	assert.Equal(t, "https://img.example/1.jpg", *got.Cover)

	rec = do(t, api, http.MethodGet, "/api/memories/"+plain.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"cover"`)
}

func TestMemoryAPI_ListRejectsBadFilters(t *testing.T) {
	t.Parallel()

	_, api := newTestAPI(t, newMemRepo(), nil)

	rec := do(t, api, http.MethodGet, "/api/memories?category=space&mood=angry&year=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, decode[errorResponse](t, rec).Fields, 3)
}

func TestMemoryAPI_Update(t *testing.T) {
	t.Parallel()

	m := seedMemory("旧标题", day(2023, 1, 1), domain.MoodHappy, domain.CategoryLife, []string{"a"}, nil)
	loc := "北京"
	m.Location = &loc
	_, api := newTestAPI(t, newMemRepo(m), nil)

	rec := do(t, api, http.MethodPatch, "/api/memories/"+m.ID.String(), map[string]any{
		"title":    "新标题",
		"location": "",
		"mood":     "",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[memoryResponse](t, rec)
	assert.Equal(t, "新标题", got.Title)
	assert.Equal(t, m.Content, got.Content)
	assert.Nil(t, got.Location)
	assert.Nil(t, got.Mood)
	assert.Equal(t, []string{"a"}, got.Tags)
	assert.True(t, got.UpdatedAt.After(m.UpdatedAt))
}

func TestMemoryAPI_UpdateErrors(t *testing.T) {
	t.Parallel()

	m := seedMemory("t", day(2023, 1, 1), "", domain.CategoryLife, nil, nil)
	_, api := newTestAPI(t, newMemRepo(m), nil)

	rec := do(t, api, http.MethodPatch, "/api/memories/"+uuid.NewString(), map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, api, http.MethodPatch, "/api/memories/"+m.ID.String(), map[string]any{"title": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, api, http.MethodPatch, "/api/memories/not-a-uuid", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMemoryAPI_DeleteTwice(t *testing.T) {
	t.Parallel()

	m := seedMemory("t", day(2023, 1, 1), "", domain.CategoryLife, nil, nil)
	_, api := newTestAPI(t, newMemRepo(m), nil)

	rec := do(t, api, http.MethodDelete, "/api/memories/"+m.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, api, http.MethodDelete, "/api/memories/"+m.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, api, http.MethodGet, "/api/memories/"+m.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMemoryAPI_PersistenceFailure(t *testing.T) {
	t.Parallel()

	m := seedMemory("keep me", day(2023, 1, 1), "", domain.CategoryLife, nil, nil)
	repo := newMemRepo(m)
	store, api := newTestAPI(t, repo, nil)
	repo.failWith = errors.New("connection refused")

	rec := do(t, api, http.MethodDelete, "/api/memories/"+m.ID.String(), nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"storage unavailable"}`, rec.Body.String())

	_, err := store.Get(m.ID)
	assert.NoError(t, err)
}

func TestMemoryAPI_NotInitialized(t *testing.T) {
	t.Parallel()

	store := memory.NewStore(discardLogger(), newMemRepo(), profileRepo{})
	mux := http.NewServeMux()
	NewMemoryHandler(store, discardLogger()).Register(mux)

	rec := do(t, mux, http.MethodGet, "/api/memories", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29"`), &d))
	assert.Equal(t, day(2024, 2, 29), d.Time)

	b, err := json.Marshal(Date{time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`"2024-02-30"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240229`), &d))
}
