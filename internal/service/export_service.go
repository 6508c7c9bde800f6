package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sgea/backend/internal/model"
	"sgea/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成导出文件失败")

// ExportService 导出业务接口
//
// 设计说明：
//   - 报名名单导出为 Excel (.xlsx)，仅活动主办者可导出
//   - 活动日程导出为 iCalendar (.ics)，公开
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportRoster 导出活动报名名单（含已取消记录）
	ExportRoster(ctx context.Context, eventID, organizerID string) (*bytes.Buffer, string, error)
	// ExportCalendar 导出活动日程；配置了投稿期时额外包含投稿期日程
	ExportCalendar(ctx context.Context, eventID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRoster：报名名单 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：活动名称与日期（合并单元格）
//   - 第 2 行：表头
//   - 第 3 行起：每条报名一行，按报名时间排序

var rosterHeaders = []string{"序号", "姓名", "邮箱", "机构", "报名日期", "状态", "出席"}

func (s *exportService) ExportRoster(ctx context.Context, eventID, organizerID string) (*bytes.Buffer, string, error) {
	event, err := findEvent(ctx, s.repo, s.logger, eventID)
	if err != nil {
		return nil, "", err
	}
	if event.OrganizerID != organizerID {
		return nil, "", ErrNotEventOwner
	}

	enrollments, err := s.repo.Enrollment.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("列出活动报名失败", zap.String("event_id", eventID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "报名名单"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 6)
	f.SetColWidth(sheetName, "B", "B", 24)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "D", "D", 24)
	f.SetColWidth(sheetName, "E", "G", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s（%s ~ %s）",
		event.Name, formatDay(event.StartDate), formatDay(event.EndDate)))
	f.MergeCell(sheetName, "A1", cell(colName(len(rosterHeaders)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range rosterHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(rosterHeaders)-1), 2), headerStyle)

	// 数据行
	for i := range enrollments {
		en := &enrollments[i]
		row := 3 + i
		name, email, institution := "-", "-", "-"
		if en.Person != nil {
			name, email, institution = en.Person.FullName, en.Person.Email, en.Person.Institution
		}
		attended := "否"
		if en.AttendanceConfirmed {
			attended = "是"
		}
		values := []interface{}{i + 1, name, email, institution, formatDay(en.EnrolledOn), rosterStatus(en.Status), attended}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("报名名单_%s.xlsx", fileSafe(event.Name))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar：活动日程 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, eventID string) (*bytes.Buffer, string, error) {
	event, err := findEvent(ctx, s.repo, s.logger, eventID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//SGEA//Academic Events//PT")

	vevent := cal.AddEvent(event.EventID + "@sgea")
	vevent.SetDtStampTime(event.UpdatedAt)
	vevent.SetSummary(event.Name)
	if event.Description != "" {
		vevent.SetDescription(event.Description)
	}
	if event.Location != "" {
		vevent.SetLocation(event.Location)
	}
	// 全天事件的 DTEND 为结束日次日（不含）
	vevent.SetAllDayStartAt(event.StartDate)
	vevent.SetAllDayEndAt(event.EndDate.AddDate(0, 0, 1))

	if event.HasSubmissionWindow() {
		window := cal.AddEvent(event.EventID + "-submission@sgea")
		window.SetDtStampTime(event.UpdatedAt)
		window.SetSummary(event.Name + " - 投稿期")
		window.SetAllDayStartAt(*event.SubmissionStart)
		window.SetAllDayEndAt(event.SubmissionEnd.AddDate(0, 0, 1))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("%s.ics", fileSafe(event.Name))
	return buf, filename, nil
}

// ── 辅助函数 ──

func rosterStatus(status model.EnrollmentStatus) string {
	if status == model.EnrollmentActive {
		return "有效"
	}
	return "已取消"
}

// fileSafe 去除文件名中的路径分隔符与引号
func fileSafe(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "\"", "", "\n", " ")
	return r.Replace(name)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
