package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/gabarito/internal/examfile"
	"github.com/ByLCY/gabarito/layout"
	"github.com/ByLCY/gabarito/preset"
	"github.com/ByLCY/gabarito/renderer"
)

type options struct {
	input     string
	output    string
	mode      string
	key       bool
	sheet     bool
	locale    string
	debug     string
	catalog   string
	listModes bool
	validate  bool
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "in", "exam.yaml", "试卷 YAML 文件路径")
	flag.StringVar(&opts.output, "out", "output/exam.pdf", "PDF 输出路径")
	flag.StringVar(&opts.mode, "mode", preset.Normal, "经济模式（未知模式按 normal 处理）")
	flag.BoolVar(&opts.key, "key", false, "输出带答案的教师版")
	flag.BoolVar(&opts.sheet, "sheet", false, "只输出答案表")
	flag.StringVar(&opts.locale, "locale", "en", "页面文字语言，如 en、pt-BR")
	flag.StringVar(&opts.debug, "debug", "", "放置信息调试 JSON 输出路径")
	flag.StringVar(&opts.catalog, "catalog", "", "自定义预设目录文件（默认使用内置目录）")
	flag.BoolVar(&opts.listModes, "list-modes", false, "列出可用的经济模式")
	flag.BoolVar(&opts.validate, "validate", false, "只检查试卷，不生成 PDF")
	flag.Parse()

	catalog := preset.Default()
	if opts.catalog != "" {
		c, err := preset.LoadFile(opts.catalog)
		if err != nil {
			log.Fatalf("加载预设目录失败: %v", err)
		}
		catalog = c
	}

	if opts.listModes {
		listModes(os.Stdout, catalog)
		return
	}

	r, err := renderer.New(renderer.Options{
		Catalog: catalog,
		Labels:  layout.LabelsFor(opts.locale),
	})
	if err != nil {
		log.Fatalf("初始化渲染器失败: %v", err)
	}
	res, err := run(opts, r, os.Stdout)
	if err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	if res != nil {
		fmt.Printf("已生成 PDF：%s（%s，%d 页）\n", opts.output, res.Mode, res.Pages)
	}
}

// run 串联读取、检查与渲染。只做检查时返回 nil 结果。
func run(opts options, r renderer.Renderer, out io.Writer) (*layout.RenderResult, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	doc, err := examfile.Load(opts.input)
	if err != nil {
		return nil, fmt.Errorf("无法读取试卷 %s: %w", opts.input, err)
	}
	if opts.key {
		doc.IncludeAnswerKey = true
	}

	if opts.validate {
		issues := layout.Validate(doc)
		for _, issue := range issues {
			fmt.Fprintln(out, issue)
		}
		if len(issues) > 0 {
			return nil, fmt.Errorf("试卷有 %d 个问题", len(issues))
		}
		fmt.Fprintln(out, "ok")
		return nil, nil
	}

	var res layout.RenderResult
	if opts.sheet {
		res, err = r.RenderAnswerSheet(doc, opts.mode)
	} else {
		res, err = r.Render(doc, opts.mode)
	}
	if err != nil {
		return nil, err
	}

	if opts.debug != "" {
		if err := writeDebug(&res, opts.debug); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.output, res.Bytes, 0o644); err != nil {
		return nil, fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return &res, nil
}

func listModes(w io.Writer, c *preset.Catalog) {
	for _, m := range c.Modes() {
		savings := ""
		if m.Savings.Paper != "" || m.Savings.Ink != "" {
			savings = fmt.Sprintf(" (paper %s, ink %s)", m.Savings.Paper, m.Savings.Ink)
		}
		fmt.Fprintf(w, "%-14s %s%s\n", m.Key, strings.TrimSpace(m.Label), savings)
	}
}

func writeDebug(result *layout.RenderResult, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
