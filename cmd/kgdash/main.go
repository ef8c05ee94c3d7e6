// kgdash 命令行版标注看板：浏览题目分页、查看本页标注质量与后端 AI 准确率
//
// 用法: go run ./cmd/kgdash -page 2 -difficulty easy -type 选择题
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"k12_kg_backend/internal/accuracy"
	"k12_kg_backend/internal/config"
	"k12_kg_backend/internal/dashboard"
	"k12_kg_backend/internal/model"
	"k12_kg_backend/pkg/logger"

	"go.uber.org/zap"
)

type options struct {
	configDir string
	baseURL   string
	page      int
	pageSize  int
	filters   dashboard.FilterSet
	analytics bool
	knowledge string
	verbose   bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configDir, "config", "configs", "配置文件目录")
	flag.StringVar(&o.baseURL, "base-url", "", "后端 API 地址，缺省取配置 dashboard.base_url")
	flag.IntVar(&o.page, "page", 1, "页码")
	flag.IntVar(&o.pageSize, "page-size", 0, "每页题数，缺省取配置 dashboard.page_size")
	flag.StringVar(&o.filters.Difficulty, "difficulty", "", "难度筛选 easy|medium|hard")
	flag.StringVar(&o.filters.QuestionType, "type", "", "题型筛选")
	flag.StringVar(&o.filters.GradeLevel, "grade", "", "年级筛选")
	flag.StringVar(&o.filters.Source, "source", "", "来源筛选")
	flag.BoolVar(&o.analytics, "analytics", false, "同时输出覆盖率与难度、题型分布")
	flag.StringVar(&o.knowledge, "knowledge", "", "查看指定题目的知识点及权重")
	flag.BoolVar(&o.verbose, "v", false, "输出请求日志")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()
	log := logger.NewConsole(opts.verbose)
	defer log.Sync()

	cfg, err := config.LoadConfig(opts.configDir)
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}
	baseURL := cfg.Dashboard.BaseURL
	if opts.baseURL != "" {
		baseURL = opts.baseURL
	}
	pageSize := cfg.Dashboard.PageSize
	if opts.pageSize > 0 {
		pageSize = opts.pageSize
	}

	client := dashboard.NewClient(baseURL, time.Duration(cfg.Dashboard.TimeoutSeconds)*time.Second, log)
	ctx := context.Background()

	if err := run(ctx, os.Stdout, client, opts, pageSize); err != nil {
		fmt.Fprintf(os.Stderr, "加载失败: %v\n", err)
		if dashboard.Retryable(err) {
			fmt.Fprintln(os.Stderr, "请检查后端服务后重试 (retry)")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, client *dashboard.Client, opts options, pageSize int) error {
	if opts.knowledge != "" {
		kws, err := client.QuestionKnowledge(ctx, opts.knowledge)
		if err != nil {
			return err
		}
		printKnowledge(w, opts.knowledge, kws)
		return nil
	}

	browser := dashboard.NewBrowser(client, pageSize)
	page, err := browser.LoadPage(ctx, opts.page, opts.filters)
	if err != nil {
		return err
	}
	printFilters(w, browser.State().Filters)
	printQuestions(w, page)
	printControls(w, dashboard.RenderControls(page.Pagination))

	summary := accuracy.Estimate(page.Questions)
	printSummary(w, summary)

	acc, err := client.AIAgentAccuracy(ctx, 1, 0, opts.filters)
	if err != nil {
		return err
	}
	printServerAccuracy(w, acc)

	if opts.analytics {
		a, err := client.LoadAnalytics(ctx)
		if err != nil {
			return err
		}
		printAnalytics(w, a)
	}
	return nil
}

func printFilters(w io.Writer, f dashboard.FilterSet) {
	if f.IsEmpty() {
		fmt.Fprintln(w, "筛选: 全部")
		return
	}
	fmt.Fprintf(w, "筛选: %s\n", f.Values().Encode())
}

func printQuestions(w io.Writer, page *model.QuestionPage) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t题型\t难度\t知识点\t内容")
	for _, q := range page.Questions {
		kps := "未标注"
		if len(q.KnowledgePoints) > 0 {
			kps = strings.Join(q.KnowledgePoints, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", q.ID, q.QuestionType, q.Difficulty, kps, truncate(q.Content, 40))
	}
	tw.Flush()
}

func printControls(w io.Writer, m dashboard.ControlModel) {
	var b strings.Builder
	if m.Prev.Enabled {
		fmt.Fprintf(&b, "[< %d] ", m.Prev.Target)
	} else {
		b.WriteString("[<] ")
	}
	for _, p := range m.Pages {
		if p.Active {
			fmt.Fprintf(&b, "(%d) ", p.Page)
		} else {
			fmt.Fprintf(&b, "%d ", p.Page)
		}
	}
	if m.Next.Enabled {
		fmt.Fprintf(&b, "[%d >]", m.Next.Target)
	} else {
		b.WriteString("[>]")
	}
	fmt.Fprintf(w, "\n%s    %s\n", b.String(), m.Range)
}

func printSummary(w io.Writer, s accuracy.Summary) {
	fmt.Fprintln(w, "\n本页标注质量")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "题目数\t%d\n", s.TotalQuestions)
	fmt.Fprintf(tw, "已标注\t%d\n", s.AnnotatedCount)
	fmt.Fprintf(tw, "覆盖率\t%d%%\n", s.CoverageRate)
	fmt.Fprintf(tw, "平均置信度\t%.2f\n", s.AvgConfidence)
	fmt.Fprintf(tw, "准确率\t%d%%\n", s.AccuracyRate)
	fmt.Fprintf(tw, "自动应用率\t%d%%\n", s.AutoApplyRate)
	tw.Flush()
}

func printServerAccuracy(w io.Writer, a *model.AIAgentAccuracy) {
	fmt.Fprintln(w, "\nAI 标注准确率（全库）")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "准确率\t%.2f%%\t(%d/%d)\n",
		a.AccuracyAnalysis.AccuracyRate,
		a.AccuracyAnalysis.CorrectAnnotations,
		a.AccuracyAnalysis.TotalAnnotations,
	)
	fmt.Fprintf(tw, "覆盖率\t%.2f%%\n", a.CoverageRate)
	fmt.Fprintf(tw, "未标注\t%d\n", a.UnannotatedCount)
	tw.Flush()
}

func printAnalytics(w io.Writer, a *dashboard.Analytics) {
	fmt.Fprintf(w, "\n知识点覆盖 %d/%d (%.2f%%)，平均每个知识点 %.2f 题\n",
		a.Coverage.Summary.CoveredKnowledgePoints,
		a.Coverage.Summary.TotalKnowledgePoints,
		a.Coverage.Summary.CoverageRate,
		a.Coverage.Summary.AverageQuestionsPerKP,
	)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "难度\t题数\t占比")
	for _, d := range a.Difficulty.DifficultyDistribution {
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\n", d.Difficulty, d.Count, d.Percentage)
	}
	fmt.Fprintln(tw, "题型\t题数\t占比")
	for _, t := range a.Types.TypeDistribution {
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\n", t.QuestionType, t.Count, t.Percentage)
	}
	tw.Flush()
}

func printKnowledge(w io.Writer, questionID string, kws []model.KnowledgeWeight) {
	if len(kws) == 0 {
		fmt.Fprintf(w, "题目 %s 暂无知识点标注\n", questionID)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "知识点\t权重\t置信度\t来源")
	for _, kw := range kws {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\n", kw.KnowledgePoint.Name, kw.Weight, dashboard.ConfidenceLevel(kw.Weight), kw.Origin)
	}
	tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
