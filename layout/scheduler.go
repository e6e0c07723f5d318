package layout

import "fmt"

// FlowState 是流式调度器的状态。
type FlowState int

const (
	StateNewPage FlowState = iota
	StateFillingLeft
	StateFillingRight
)

func (s FlowState) String() string {
	switch s {
	case StateNewPage:
		return "new-page"
	case StateFillingLeft:
		return "filling-left"
	case StateFillingRight:
		return "filling-right"
	default:
		return fmt.Sprintf("FlowState(%d)", int(s))
	}
}

// PageStarter 新增一页、绘制续页页眉，并返回新页内容区域顶部的 y。
type PageStarter func() (float64, error)

// Slot 是调度器给出的位置，Page 从 1 开始。First 表示该块位于栏顶。
type Slot struct {
	Page   int
	Column Column
	Y      float64
	First  bool
}

// Scheduler 决定每道题放在哪一页、哪一栏。
//
// 双栏时先填满左栏再使用右栏（顺序填充而非轮流）；只有两栏都放不下时才换页。
// "两栏都放不下" 指左栏已经放不下而转入右栏之后，右栏也放不下：为保持阅读顺序，
// 进入右栏后本页不再回到左栏，即使左栏底部仍有空间。放置结果只取决于输入顺序与高度。
type Scheduler struct {
	state     FlowState
	twoColumn bool
	top       float64
	bottom    float64
	leftY     float64
	rightY    float64
	allowance float64
	page      int
	startPage PageStarter
}

// NewScheduler 创建调度器。第一页由调用方准备好，top 为其内容区域顶部；
// allowance 为每道题之后为分隔线预留的高度（不绘制分隔线时为 0）。
func NewScheduler(top, bottom float64, twoColumn bool, allowance float64, startPage PageStarter) *Scheduler {
	return &Scheduler{
		state:     StateNewPage,
		twoColumn: twoColumn,
		top:       top,
		bottom:    bottom,
		leftY:     top,
		rightY:    top,
		allowance: allowance,
		page:      1,
		startPage: startPage,
	}
}

// State 返回当前状态。
func (s *Scheduler) State() FlowState { return s.state }

// Page 返回当前页码（从 1 开始）。
func (s *Scheduler) Page() int { return s.page }

// Cursor 返回某一栏当前的光标 y。
func (s *Scheduler) Cursor(col Column) float64 {
	if col == RightColumn {
		return s.rightY
	}
	return s.leftY
}

// Place 为高度为 height 的块选择位置，并按估算高度推进当前栏的光标。
func (s *Scheduler) Place(height float64) (Slot, error) {
	if s.state == StateNewPage {
		s.state = StateFillingLeft
	}

	switch s.state {
	case StateFillingLeft:
		if s.fits(s.leftY, height) {
			return s.commit(LeftColumn, height), nil
		}
		if s.twoColumn {
			s.state = StateFillingRight
			if s.fits(s.rightY, height) {
				return s.commit(RightColumn, height), nil
			}
		}
	case StateFillingRight:
		if s.fits(s.rightY, height) {
			return s.commit(RightColumn, height), nil
		}
	}

	if err := s.breakPage(); err != nil {
		return Slot{}, err
	}
	return s.commit(LeftColumn, height), nil
}

// Settle 在实际绘制之后，把当前栏的光标同步到表面报告的位置。
func (s *Scheduler) Settle(drawnBottom float64) {
	y := drawnBottom + s.allowance
	if s.state == StateFillingRight {
		s.rightY = y
		return
	}
	s.leftY = y
}

// fits 判断块能否放入某栏。空栏总是接受，避免超高的块导致无限换页。
func (s *Scheduler) fits(cursor, height float64) bool {
	if cursor <= s.top {
		return true
	}
	return cursor+height <= s.bottom
}

func (s *Scheduler) commit(col Column, height float64) Slot {
	slot := Slot{Page: s.page, Column: col}
	if col == RightColumn {
		slot.Y = s.rightY
		slot.First = s.rightY <= s.top
		s.rightY += height + s.allowance
	} else {
		slot.Y = s.leftY
		slot.First = s.leftY <= s.top
		s.leftY += height + s.allowance
	}
	return slot
}

func (s *Scheduler) breakPage() error {
	s.state = StateNewPage
	if s.startPage == nil {
		return fmt.Errorf("layout: 调度器缺少换页回调")
	}
	top, err := s.startPage()
	if err != nil {
		return err
	}
	s.page++
	s.top = top
	s.leftY = top
	s.rightY = top
	s.state = StateFillingLeft
	return nil
}
