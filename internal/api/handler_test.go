package api

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewHandler_WarnsOnEmptyWorkerToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewHandler(Config{Logger: logger})

	if !strings.Contains(buf.String(), "worker token is not set") {
		t.Errorf("нет предупреждения о пустом токене воркера, лог: %s", buf.String())
	}
}

func TestNewHandler_SilentWithWorkerToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewHandler(Config{Logger: logger, WorkerToken: "topsecret"})

	if strings.Contains(buf.String(), "worker token") {
		t.Errorf("ложное предупреждение при заданном токене, лог: %s", buf.String())
	}
}
