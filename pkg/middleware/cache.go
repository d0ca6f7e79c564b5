package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"theatre-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const maxCachedBody = 1 << 20

// captureWriter forwards the response and keeps a copy of the body.
type captureWriter struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.overflow {
		if cw.buf.Len()+len(b) > maxCachedBody {
			cw.overflow = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

func cacheKey(prefix string, r *http.Request) string {
	sum := sha1.Sum([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (int, http.Header, []byte, bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status := int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	hdr := make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+hlen:], true
}

// Cache serves repeated GET requests from Redis for cfg.TTL. Only 200
// responses are stored. Without Redis it does nothing.
func Cache(cfg utils.CacheConfig, rdb redis.UniversalClient, logger *zap.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled || rdb == nil || cfg.TTL <= 0 {
		return passThrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(cfg.Prefix, r)

			bs, err := rdb.Get(r.Context(), key).Bytes()
			if err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						for _, v := range vals {
							w.Header().Add(k, v)
						}
					}
					w.Header().Set("X-Cache", "HIT")
					w.WriteHeader(status)
					_, _ = w.Write(body)
					return
				}
			} else if !errors.Is(err, redis.Nil) {
				logger.Debug("Cache lookup failed", zap.Error(err), zap.String("key", key))
			}

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set("X-Cache", "MISS")

			next.ServeHTTP(cw, r)

			if cw.status != http.StatusOK || cw.overflow {
				return
			}

			hdr := http.Header{}
			if ct := w.Header().Get("Content-Type"); ct != "" {
				hdr.Set("Content-Type", ct)
			}
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return
			}
			if err := rdb.SetEx(context.WithoutCancel(r.Context()), key, payload, cfg.TTL).Err(); err != nil {
				logger.Debug("Cache store failed", zap.Error(err), zap.String("key", key))
			}
		})
	}
}

// InvalidateOnWrite drops every cached response after a successful
// non-GET request so catalog changes are visible right away.
func InvalidateOnWrite(cfg utils.CacheConfig, rdb redis.UniversalClient, logger *zap.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			if rw.statusCode >= http.StatusBadRequest {
				return
			}
			removed, err := InvalidateCache(context.WithoutCancel(r.Context()), rdb, cfg.Prefix)
			if err != nil {
				logger.Warn("Cache invalidation failed", zap.Error(err), zap.String("path", r.URL.Path))
				return
			}
			logger.Debug("Cache invalidated", zap.Int("keys", removed), zap.String("path", r.URL.Path))
		})
	}
}

// InvalidateCache deletes all keys under prefix and returns how many were removed.
func InvalidateCache(ctx context.Context, rdb redis.UniversalClient, prefix string) (int, error) {
	pattern := strings.TrimSuffix(prefix, ":") + ":*"

	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return removed, fmt.Errorf("scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("del cached keys: %w", err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}
