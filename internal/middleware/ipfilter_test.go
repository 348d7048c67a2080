package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIPFilterBlocked(t *testing.T) {
	gin.SetMode(gin.TestMode)

	blocklist := []string{"192.168.1.0/24"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/files/f.txt", nil)
	c.Request.RemoteAddr = "192.168.1.100:1234"

	middleware := IPFilterMiddleware(blocklist)
	middleware(c)

	if w.Code != 403 {
		t.Errorf("Expected 403 for blocked IP, got %d", w.Code)
	}
}

func TestIPFilterAllowed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	blocklist := []string{"192.168.1.0/24"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/files/f.txt", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"

	middleware := IPFilterMiddleware(blocklist)
	middleware(c)

	if w.Code == 403 {
		t.Error("Expected allowed for non-blocked IP")
	}
}

func TestIPFilterBareIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// A bare IP should be treated as a /32
	blocklist := []string{"203.0.113.9"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/files/f.txt", nil)
	c.Request.RemoteAddr = "203.0.113.9:9999"

	middleware := IPFilterMiddleware(blocklist)
	middleware(c)

	if w.Code != 403 {
		t.Errorf("Expected 403 for blocked bare IP, got %d", w.Code)
	}
}

func TestIPFilterEmptyBlocklist(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/files/f.txt", nil)
	c.Request.RemoteAddr = "10.0.0.1:1234"

	middleware := IPFilterMiddleware(nil)
	middleware(c)

	if w.Code == 403 {
		t.Error("Expected allowed with empty blocklist")
	}
}
