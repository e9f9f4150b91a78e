package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/frahmantamala/finance-tracker/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	It("should write JSON when format is json", func() {
		var buf bytes.Buffer
		lg := logger.Setup(logger.Options{Level: "info", Format: "json", Output: &buf})

		lg.Info("hello", "user_id", "u-1")

		var line map[string]interface{}
		Expect(json.Unmarshal(buf.Bytes(), &line)).To(Succeed())
		Expect(line["msg"]).To(Equal("hello"))
		Expect(line["user_id"]).To(Equal("u-1"))
	})

	It("should drop records below the configured level", func() {
		var buf bytes.Buffer
		lg := logger.Setup(logger.Options{Level: "warn", Format: "text", Output: &buf})

		lg.Info("quiet")
		Expect(buf.Len()).To(BeZero())

		lg.Warn("loud")
		Expect(buf.String()).To(ContainSubstring("loud"))
	})

	It("should parse levels case-insensitively", func() {
		Expect(logger.ParseLevel("DEBUG")).To(Equal(slog.LevelDebug))
		Expect(logger.ParseLevel("warning")).To(Equal(slog.LevelWarn))
		Expect(logger.ParseLevel("bogus")).To(Equal(slog.LevelInfo))
	})

	It("should carry fields through the context", func() {
		var buf bytes.Buffer
		logger.Setup(logger.Options{Format: "json", Output: &buf})

		ctx := logger.With(context.Background(), "traceID", "abc")
		logger.From(ctx).Info("scoped")

		Expect(buf.String()).To(ContainSubstring(`"traceID":"abc"`))
	})

	It("should use the fallback when the context has no logger", func() {
		fallback := logger.Discard()
		Expect(logger.FromOr(context.Background(), fallback)).To(BeIdenticalTo(fallback))
	})
})
