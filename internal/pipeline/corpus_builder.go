// Package pipeline 定义了员工语料构建与向量索引同步的流程。
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"bench-match-go/internal/model"
	"bench-match-go/internal/repository"
	"bench-match-go/pkg/embedding"
	"bench-match-go/pkg/log"
	"bench-match-go/pkg/metrics"
	"bench-match-go/pkg/tasks"
)

// CorpusIndex 是语料构建所需的向量索引写接口。
type CorpusIndex interface {
	Upsert(ctx context.Context, entry model.CorpusEntry) error
	Count(ctx context.Context) (int64, error)
	Name() string
}

// SyncReport 汇总一次语料同步的结果。
type SyncReport struct {
	Total      int      `json:"total"`
	Succeeded  int      `json:"succeeded"`
	Failed     int      `json:"failed"`
	FailedIDs  []string `json:"failed_ids,omitempty"`
	Index      string   `json:"index"`
	IndexCount int64    `json:"index_count"`
}

// CorpusBuilder 封装了语料构建的所有依赖和逻辑。
type CorpusBuilder struct {
	employees    repository.EmployeeRepository
	entries      repository.CorpusEntryRepository
	embedder     embedding.Client
	index        CorpusIndex
	metrics      *metrics.Metrics
	modelVersion string
}

// NewCorpusBuilder 创建一个新的 CorpusBuilder 实例。entries 与 m 可以为 nil。
func NewCorpusBuilder(
	employees repository.EmployeeRepository,
	entries repository.CorpusEntryRepository,
	embedder embedding.Client,
	index CorpusIndex,
	m *metrics.Metrics,
) *CorpusBuilder {
	return &CorpusBuilder{
		employees:    employees,
		entries:      entries,
		embedder:     embedder,
		index:        index,
		metrics:      m,
		modelVersion: embedder.Model(),
	}
}

// CanonicalText 按固定顺序拼接员工的规范文本，缺失字段渲染为空字符串。
func CanonicalText(rec *model.EmployeeRecord) string {
	var role, primary string
	if rec.Profile != nil {
		role = rec.Profile.Role
		primary = rec.Profile.PrimarySkill
	}

	skills := make([]string, 0, len(rec.Skills))
	for _, s := range rec.Skills {
		skills = append(skills, fmt.Sprintf("%s (%s yrs)", s.SkillName, formatYears(s.YearsExperience)))
	}
	certs := make([]string, 0, len(rec.Certifications))
	for _, c := range rec.Certifications {
		certs = append(certs, c.CertificateName)
	}
	summaries := make([]string, 0, len(rec.Projects))
	for _, p := range rec.Projects {
		summaries = append(summaries, p.ExperienceSummary)
	}

	text := "Role: " + role +
		"\nPrimary Skill: " + primary +
		"\nSkills: " + strings.Join(skills, ", ") +
		"\nCertifications: " + strings.Join(certs, ", ") +
		"\nExperience: " + strings.Join(summaries, " ")
	return strings.TrimSpace(text)
}

func formatYears(y float64) string {
	return strconv.FormatFloat(y, 'f', -1, 64)
}

// Sync 为给定员工（ids 为空时为全部员工）重建语料条目。
// 单个员工嵌入或写索引失败只记录并跳过；读取源表失败则整体返回错误。
func (b *CorpusBuilder) Sync(ctx context.Context, ids []string) (*SyncReport, error) {
	src, err := b.employees.LoadSourceRecords(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("读取员工源数据失败: %w", err)
	}
	records := model.JoinEmployeeRecords(*src, nil)

	report := &SyncReport{Total: len(src.Profiles), Index: b.index.Name()}
	log.Infof("[CorpusBuilder] 开始同步语料, 索引: %s, 员工数: %d", report.Index, report.Total)

	for i := range src.Profiles {
		id := src.Profiles[i].EmployeeID
		if err := b.syncOne(ctx, id, records[id]); err != nil {
			log.Errorf("[CorpusBuilder] 员工 %s 同步失败, 已跳过: %v", id, err)
			report.Failed++
			report.FailedIDs = append(report.FailedIDs, id)
			continue
		}
		report.Succeeded++
	}

	b.metrics.AddCorpusProcessed("succeeded", report.Succeeded)
	b.metrics.AddCorpusProcessed("failed", report.Failed)

	if n, err := b.index.Count(ctx); err != nil {
		log.Warnf("[CorpusBuilder] 读取索引文档数失败: %v", err)
	} else {
		report.IndexCount = n
	}

	log.Infof("[CorpusBuilder] 语料同步完成, 成功: %d, 失败: %d, 索引文档数: %d",
		report.Succeeded, report.Failed, report.IndexCount)
	return report, nil
}

func (b *CorpusBuilder) syncOne(ctx context.Context, id string, rec *model.EmployeeRecord) error {
	text := CanonicalText(rec)
	vector, err := b.embedder.CreateEmbedding(ctx, text)
	if err != nil {
		return fmt.Errorf("生成向量失败: %w", err)
	}

	entry := model.CorpusEntry{
		EmployeeID: id,
		Text:       text,
		Vector:     vector,
		Metadata:   model.CorpusMetadata{EmployeeID: id, Role: rec.Profile.Role},
	}
	if err := b.index.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("写入向量索引失败: %w", err)
	}

	// 关系库镜像仅用于审计，失败不影响索引结果。
	if b.entries != nil {
		sum := sha256.Sum256([]byte(text))
		mirror := &model.CorpusEntryRecord{
			EmployeeID:   id,
			TextContent:  text,
			ContentHash:  hex.EncodeToString(sum[:]),
			ModelVersion: b.modelVersion,
		}
		if err := b.entries.Upsert(ctx, mirror); err != nil {
			log.Warnf("[CorpusBuilder] 写入 corpus_entries 镜像失败, EmployeeID: %s, Error: %v", id, err)
		}
	}
	return nil
}

// Process 处理一个来自 Kafka 的语料同步任务，有员工失败时返回错误以触发重试。
func (b *CorpusBuilder) Process(ctx context.Context, task tasks.CorpusSyncTask) error {
	report, err := b.Sync(ctx, task.EmployeeIDs)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("语料同步任务 %s 有 %d 名员工失败", task.TaskID, report.Failed)
	}
	return nil
}
