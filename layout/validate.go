package layout

import (
	"fmt"
	"unicode/utf8"
)

const (
	minAlternatives = 2
	maxAlternatives = 26
	excerptRunes    = 50
)

// Issue 是导出前检查发现的问题。Question 为题号（从 1 开始），0 表示整份试卷。
type Issue struct {
	Question int    `json:"question,omitempty"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	if i.Question == 0 {
		return i.Message
	}
	return fmt.Sprintf("question %d: %s", i.Question, i.Message)
}

// Validate 检查试卷内容是否适合导出，返回所有问题（没有问题时为 nil）。
// 渲染本身只要求题目非空，其余规则供导出前的提示使用。
func Validate(doc Document) []Issue {
	var issues []Issue
	if len(doc.Questions) == 0 {
		return append(issues, Issue{Message: "exam has no questions"})
	}
	seen := map[string]int{}
	for i, q := range doc.Questions {
		n := i + 1
		if q.ID != "" {
			if first, dup := seen[q.ID]; dup {
				issues = append(issues, Issue{Question: n, Message: fmt.Sprintf("duplicate of question %d (%q)", first, excerpt(q.Statement))})
			} else {
				seen[q.ID] = n
			}
		}
		if len(q.Alternatives) == 0 {
			issues = append(issues, Issue{Question: n, Message: fmt.Sprintf("%q has no alternatives", excerpt(q.Statement))})
			continue
		}
		if len(q.Alternatives) < minAlternatives {
			issues = append(issues, Issue{Question: n, Message: fmt.Sprintf("%q needs at least %d alternatives", excerpt(q.Statement), minAlternatives)})
		}
		if len(q.Alternatives) > maxAlternatives {
			issues = append(issues, Issue{Question: n, Message: fmt.Sprintf("%q has more than %d alternatives", excerpt(q.Statement), maxAlternatives)})
		}
		if CorrectLetters(q, "") == "" {
			issues = append(issues, Issue{Question: n, Message: fmt.Sprintf("%q has no correct alternative", excerpt(q.Statement))})
		}
	}
	return issues
}

func excerpt(s string) string {
	if utf8.RuneCountInString(s) <= excerptRunes {
		return s
	}
	return string([]rune(s)[:excerptRunes]) + "..."
}
