package service

import (
	"context"
	"fmt"
	"k12_kg_backend/internal/model"
	"k12_kg_backend/internal/repository"
	"k12_kg_backend/internal/util"
	"k12_kg_backend/pkg/database"
	"k12_kg_backend/pkg/logger"
	"k12_kg_backend/pkg/monitoring"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// GraphSyncService 将关系库中的知识图谱镜像到 Neo4j，未配置时所有方法为空操作
type GraphSyncService struct {
	client       *database.Neo4jClient
	QuestionRepo *repository.QuestionRepository
	KPRepo       *repository.KnowledgePointRepository
}

func NewGraphSyncService(client *database.Neo4jClient, questionRepo *repository.QuestionRepository, kpRepo *repository.KnowledgePointRepository) *GraphSyncService {
	return &GraphSyncService{client: client, QuestionRepo: questionRepo, KPRepo: kpRepo}
}

func (s *GraphSyncService) Enabled() bool {
	return s != nil && s.client != nil && s.client.Driver != nil
}

func (s *GraphSyncService) write(ctx context.Context, fn func(tx neo4j.ManagedTransaction) error) error {
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(tx)
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	monitoring.GraphSyncs.WithLabelValues(status).Inc()
	return err
}

func run(ctx context.Context, tx neo4j.ManagedTransaction, cypher string, params map[string]any) error {
	res, err := tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

// EnsureSchema 创建唯一约束，失败时继续
func (s *GraphSyncService) EnsureSchema(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	for _, stmt := range []string{
		`CREATE CONSTRAINT kp_id_unique IF NOT EXISTS FOR (k:KnowledgePoint) REQUIRE k.id IS UNIQUE`,
		`CREATE CONSTRAINT question_id_unique IF NOT EXISTS FOR (q:Question) REQUIRE q.id IS UNIQUE`,
	} {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			logger.Log.Warn("Neo4j schema init failed (continuing)", zap.Error(err))
			continue
		}
		_, _ = res.Consume(ctx)
	}
}

func knowledgeNodes(kps []model.KnowledgePoint) ([]map[string]any, []map[string]any) {
	now := time.Now().UTC().Format(time.RFC3339)
	nodes := make([]map[string]any, 0, len(kps))
	subs := []map[string]any{}
	for _, kp := range kps {
		keywords := kp.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		nodes = append(nodes, map[string]any{
			"id":          kp.ID,
			"name":        kp.Name,
			"description": kp.Description,
			"level":       kp.Level,
			"difficulty":  string(kp.Difficulty),
			"keywords":    keywords,
			"synced_at":   now,
		})
		if kp.ParentID != nil {
			subs = append(subs, map[string]any{"from_id": *kp.ParentID, "to_id": kp.ID})
		}
	}
	return nodes, subs
}

func (s *GraphSyncService) syncKnowledge(ctx context.Context) (model.GraphSyncResult, error) {
	var result model.GraphSyncResult
	kps, err := s.KPRepo.FindAll()
	if err != nil {
		return result, err
	}
	prereqs, err := s.KPRepo.AllPrerequisites()
	if err != nil {
		return result, err
	}

	nodes, subs := knowledgeNodes(kps)
	requires := make([]map[string]any, 0, len(prereqs))
	for _, p := range prereqs {
		requires = append(requires, map[string]any{
			"from_id":  p.KnowledgePointID,
			"to_id":    p.PrerequisiteID,
			"strength": p.Strength,
		})
	}

	err = s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		if len(nodes) > 0 {
			if err := run(ctx, tx, `
UNWIND $nodes AS n
MERGE (k:KnowledgePoint {id: n.id})
SET k += n
`, map[string]any{"nodes": nodes}); err != nil {
				return err
			}
		}
		if len(subs) > 0 {
			if err := run(ctx, tx, `
UNWIND $rels AS r
MATCH (p:KnowledgePoint {id: r.from_id})
MATCH (c:KnowledgePoint {id: r.to_id})
MERGE (p)-[:HAS_SUB_POINT]->(c)
`, map[string]any{"rels": subs}); err != nil {
				return err
			}
		}
		if len(requires) > 0 {
			if err := run(ctx, tx, `
UNWIND $rels AS r
MATCH (a:KnowledgePoint {id: r.from_id})
MATCH (b:KnowledgePoint {id: r.to_id})
MERGE (a)-[e:REQUIRES]->(b)
SET e.strength = r.strength
`, map[string]any{"rels": requires}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("neo4j: sync knowledge points: %w", err)
	}

	result.KnowledgePoints = len(nodes)
	result.SubPoints = len(subs)
	result.Requires = len(requires)
	return result, nil
}

func (s *GraphSyncService) SyncKnowledge(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	_, err := s.syncKnowledge(ctx)
	return err
}

func questionNode(q model.Question) map[string]any {
	return map[string]any{
		"id":            q.ID,
		"content":       q.Content,
		"question_type": q.QuestionType,
		"difficulty":    string(q.Difficulty),
		"grade_level":   q.GradeLevel,
		"source":        q.Source,
	}
}

func testsEdges(links []model.QuestionKnowledge) []map[string]any {
	edges := make([]map[string]any, 0, len(links))
	for _, l := range links {
		edges = append(edges, map[string]any{
			"question_id": l.QuestionID,
			"kp_id":       l.KnowledgePointID,
			"weight":      l.Weight,
			"origin":      string(l.Origin),
		})
	}
	return edges
}

const upsertQuestionsCypher = `
UNWIND $nodes AS n
MERGE (q:Question {id: n.id})
SET q += n
`

const upsertTestsCypher = `
UNWIND $rels AS r
MATCH (q:Question {id: r.question_id})
MATCH (k:KnowledgePoint {id: r.kp_id})
MERGE (q)-[e:TESTS]->(k)
SET e.weight = r.weight, e.origin = r.origin
`

// SyncQuestion 重写单个题目的节点与 TESTS 关系
func (s *GraphSyncService) SyncQuestion(ctx context.Context, questionID string) error {
	if !s.Enabled() {
		return nil
	}
	q, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return err
	}
	links, err := s.QuestionRepo.KnowledgeOf(questionID)
	if err != nil {
		return err
	}

	return s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		if err := run(ctx, tx, upsertQuestionsCypher, map[string]any{"nodes": []map[string]any{questionNode(*q)}}); err != nil {
			return err
		}
		if err := run(ctx, tx, `MATCH (q:Question {id: $id})-[e:TESTS]->() DELETE e`, map[string]any{"id": questionID}); err != nil {
			return err
		}
		edges := testsEdges(links)
		if len(edges) == 0 {
			return nil
		}
		return run(ctx, tx, upsertTestsCypher, map[string]any{"rels": edges})
	})
}

// SyncAll 全量同步知识点、题目与三类关系
func (s *GraphSyncService) SyncAll(ctx context.Context) (*model.GraphSyncResult, error) {
	if !s.Enabled() {
		return nil, util.ErrGraphDisabled
	}
	s.EnsureSchema(ctx)

	result, err := s.syncKnowledge(ctx)
	if err != nil {
		return nil, err
	}

	questions, err := s.QuestionRepo.FindAll()
	if err != nil {
		return nil, err
	}
	links, err := s.QuestionRepo.AllLinks()
	if err != nil {
		return nil, err
	}
	nodes := make([]map[string]any, 0, len(questions))
	for _, q := range questions {
		nodes = append(nodes, questionNode(q))
	}
	edges := testsEdges(links)

	err = s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		if len(nodes) > 0 {
			if err := run(ctx, tx, upsertQuestionsCypher, map[string]any{"nodes": nodes}); err != nil {
				return err
			}
		}
		if len(edges) > 0 {
			return run(ctx, tx, upsertTestsCypher, map[string]any{"rels": edges})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: sync questions: %w", err)
	}

	result.Questions = len(nodes)
	result.Tests = len(edges)
	logger.Log.Info("Graph sync completed",
		zap.Int("knowledge_points", result.KnowledgePoints),
		zap.Int("questions", result.Questions),
		zap.Int("tests", result.Tests),
	)
	return &result, nil
}
