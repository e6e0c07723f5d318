package layout

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"

	"github.com/ByLCY/gabarito/binding"
)

// Labels 收集页面上的固定文字。带 ${...} 的字段是模板，由 binding.Interpolate 填充。
type Labels struct {
	Locale      string
	Subject     string // ${subject}
	Date        string // ${date}
	DateLayout  string
	AnswerKey   string
	SheetTitle  string
	StudentInfo string
	Page        string // ${page} ${total}
	Question    string
	Answer      string
	Check       string
	Missing     string
}

var englishLabels = Labels{
	Locale:      "en",
	Subject:     "Subject: ${subject}",
	Date:        "Date: ${date}",
	DateLayout:  "01/02/2006",
	AnswerKey:   "ANSWER KEY",
	SheetTitle:  "OFFICIAL ANSWER KEY",
	StudentInfo: "Name: _______________________________________     Class: __________     Date: ___/___/______",
	Page:        "Page ${page} of ${total}",
	Question:    "Question",
	Answer:      "Ans.",
	Check:       "✓",
	Missing:     "-",
}

var portugueseLabels = Labels{
	Locale:      "pt-BR",
	Subject:     "Disciplina: ${subject}",
	Date:        "Data: ${date}",
	DateLayout:  "02/01/2006",
	AnswerKey:   "GABARITO",
	SheetTitle:  "GABARITO OFICIAL",
	StudentInfo: "Nome: _______________________________________     Turma: __________     Data: ___/___/______",
	Page:        "Página ${page} de ${total}",
	Question:    "Questão",
	Answer:      "Resp.",
	Check:       "✓",
	Missing:     "-",
}

var (
	labelSets    = []Labels{englishLabels, portugueseLabels}
	labelMatcher = language.NewMatcher([]language.Tag{language.English, language.BrazilianPortuguese})
)

// LabelsFor 按 BCP 47 语言标签选择最接近的文字集合，无法匹配时返回英文。
func LabelsFor(locale string) Labels {
	_, index := language.MatchStrings(labelMatcher, locale)
	if index < 0 || index >= len(labelSets) {
		return englishLabels
	}
	return labelSets[index]
}

// orDefault 用英文文字补齐 l 中为空的字段。
func (l Labels) orDefault() Labels {
	d := englishLabels
	fill := func(dst *string, fallback string) {
		if *dst == "" {
			*dst = fallback
		}
	}
	fill(&l.Locale, d.Locale)
	fill(&l.Subject, d.Subject)
	fill(&l.Date, d.Date)
	fill(&l.DateLayout, d.DateLayout)
	fill(&l.AnswerKey, d.AnswerKey)
	fill(&l.SheetTitle, d.SheetTitle)
	fill(&l.StudentInfo, d.StudentInfo)
	fill(&l.Page, d.Page)
	fill(&l.Question, d.Question)
	fill(&l.Answer, d.Answer)
	fill(&l.Check, d.Check)
	fill(&l.Missing, d.Missing)
	return l
}

// check 确认模板只引用已知的变量。
func (l Labels) check() error {
	templates := []struct {
		name, text string
		vars       []string
	}{
		{"Subject", l.Subject, []string{"subject"}},
		{"Date", l.Date, []string{"date"}},
		{"Page", l.Page, []string{"page", "total"}},
	}
	for _, t := range templates {
		for _, name := range binding.Placeholders(t.text) {
			if !slices.Contains(t.vars, name) {
				return fmt.Errorf("layout: 标签 %s 引用了未知变量 ${%s}", t.name, name)
			}
		}
	}
	return nil
}

func (l Labels) pageLine(page, total int) string {
	return binding.Interpolate(l.Page, binding.Vars{"page": page, "total": total})
}

func (l Labels) subjectLine(subject string) string {
	return binding.Interpolate(l.Subject, binding.Vars{"subject": subject})
}

func (l Labels) dateLine(date string) string {
	return binding.Interpolate(l.Date, binding.Vars{"date": date})
}
