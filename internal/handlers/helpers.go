package handlers

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskcontrol/internal/apperr"
)

// конверты ответов: {success:true, data} / {success:false, message}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

// respondError maps typed API errors to their status; всё остальное —
// внутренняя ошибка, наружу уходит только generic 500.
func respondError(c *gin.Context, err error) {
	if e := apperr.From(err); e != nil {
		c.JSON(e.Status, gin.H{"success": false, "message": e.Message})
		return
	}
	log.Printf("[http][err] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

// более устойчиво к типам в контексте (int64 / int / float64 / string)
func getUserID(c *gin.Context) int64 {
	v, ok := c.Get("user_id")
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// parseIDParam reads a numeric :param, reporting 400 itself on garbage.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// --- nullable-поля частичного обновления ---
//
// json.RawMessage различает три случая, которые один указатель не различит:
// поле отсутствует (nil), явный null ("null") и значение.

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// nullableString: (value, clear, err). Отсутствие поля — (nil, false).
func nullableString(raw json.RawMessage) (*string, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	if isJSONNull(raw) {
		return nil, true, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, err
	}
	return &s, false, nil
}

func nullableInt64(raw json.RawMessage) (*int64, bool, error) {
	if raw == nil {
		return nil, false, nil
	}
	if isJSONNull(raw) {
		return nil, true, nil
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, false, err
	}
	return &n, false, nil
}

func nullableTime(raw json.RawMessage) (*time.Time, bool, error) {
	s, clear, err := nullableString(raw)
	if err != nil || s == nil {
		return nil, clear, err
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, false, err
	}
	return &t, false, nil
}
