package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"k12_kg_backend/internal/config"
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/util"
)

func TestExportWritesSnapshotToLocalStorage(t *testing.T) {
	e := newTestEnv(t)
	dir := t.TempDir()
	storage := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}})
	exporter := NewExportService(e.questionRepo, e.kpRepo, storage)

	e.mustKP(t, "一般过去时", "yesterday")
	e.mustQuestion(t, model.QuestionImport{Content: "I went there yesterday.", KnowledgePoints: []string{"一般过去时"}})
	e.mustQuestion(t, model.QuestionImport{Content: "Unlabeled."})

	res, err := exporter.Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.QuestionCount != 2 || res.KnowledgePointCount != 1 || res.AnnotationCount != 1 {
		t.Fatalf("result: got=%+v", res)
	}
	if !strings.HasPrefix(res.URL, "/exports/kg-export-") {
		t.Fatalf("URL: got=%s", res.URL)
	}

	data, err := os.ReadFile(filepath.Join(dir, res.Filename))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var snap model.GraphSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	labeled := 0
	for _, q := range snap.Questions {
		if q.KnowledgePoints == nil {
			t.Fatalf("knowledge_points should never be null: %+v", q)
		}
		labeled += len(q.KnowledgePoints)
	}
	if labeled != 1 {
		t.Fatalf("labels in snapshot: want=1 got=%d", labeled)
	}
}

func TestGraphSyncDisabledWithoutNeo4j(t *testing.T) {
	e := newTestEnv(t)
	graph := NewGraphSyncService(nil, e.questionRepo, e.kpRepo)
	if graph.Enabled() {
		t.Fatalf("graph sync should be disabled without a client")
	}
	if _, err := graph.SyncAll(context.Background()); !errors.Is(err, util.ErrGraphDisabled) {
		t.Fatalf("SyncAll: want=%v got=%v", util.ErrGraphDisabled, err)
	}

	var nilGraph *GraphSyncService
	if nilGraph.Enabled() {
		t.Fatalf("nil service should report disabled")
	}
}
