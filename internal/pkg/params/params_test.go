package params

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title    string `json:"title"    binding:"required"`
	Status   string `json:"status"   binding:"omitempty,oneof=pending completed"`
	Progress *int   `json:"progress" binding:"omitempty,min=0,max=100"`
}

func bindBody(body string) (*httptest.ResponseRecorder, bool) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var dst sample
	return w, BindJSON(c, &dst)
}

func TestBindJSONMessages(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{}`, `{"error":"title is required"}`},
		{`{"title":"x","status":"done"}`, `{"error":"status must be one of: pending, completed"}`},
		{`{"title":"x","progress":101}`, `{"error":"progress must be at most 100"}`},
		{`{"title":"x","progress":-1}`, `{"error":"progress must be at least 0"}`},
		{`{"title":"x","progress":"high"}`, `{"error":"progress has an invalid type"}`},
		{`{"title":`, `{"error":"Invalid request body"}`},
		{``, `{"error":"Request body is required"}`},
	}
	for _, tc := range cases {
		w, ok := bindBody(tc.body)
		assert.False(t, ok, tc.body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, tc.want, w.Body.String(), tc.body)
	}

	_, ok := bindBody(`{"title":"x","progress":0}`)
	assert.True(t, ok)
}

func TestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := ID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for _, raw := range []string{"abc", "0", "-3", "1.5"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/"+raw, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		assert.JSONEq(t, `{"error":"Invalid id"}`, w.Body.String())
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.JSONEq(t, `{"id":42}`, w.Body.String())
}

func TestOptionalQueryID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	run := func(target string) (*uint, bool) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		return OptionalQueryID(c, "member_id")
	}

	id, ok := run("/?member_id=")
	assert.True(t, ok)
	assert.Nil(t, id)

	id, ok = run("/?member_id=7")
	assert.True(t, ok)
	if assert.NotNil(t, id) {
		assert.Equal(t, uint(7), *id)
	}

	_, ok = run("/?member_id=x")
	assert.False(t, ok)
}
