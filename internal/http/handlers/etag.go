package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RespondJSONWithETag encodes payload once, tags it with a content hash and
// answers 304 when the client already holds that representation.
func RespondJSONWithETag(ctx *gin.Context, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	etag := etagOf(body)
	ctx.Header("ETag", etag)
	// replaces the global no-store: keep the copy, but revalidate it every time
	ctx.Header("Cache-Control", "private, no-cache")

	if notModified(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(status, "application/json; charset=utf-8", body)
}

func etagOf(body []byte) string {
	sum := sha256.Sum256(body)
	// 128 bits is plenty to tell one task page from the next
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// notModified applies the weak comparison If-None-Match calls for.
func notModified(header, etag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	for _, candidate := range strings.Split(header, ",") {
		if opaqueTag(candidate) == opaqueTag(etag) {
			return true
		}
	}
	return false
}

func opaqueTag(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "W/")
}
