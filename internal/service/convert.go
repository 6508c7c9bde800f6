package service

import (
	"time"

	"sgea/backend/internal/dto"
	"sgea/backend/internal/model"
	pkgerrors "sgea/backend/pkg/errors"
)

// ErrInvalidDate 日期格式应为 yyyy-MM-dd
var ErrInvalidDate = pkgerrors.New(pkgerrors.ErrInvalidArgument, "日期格式无效，应为 yyyy-MM-dd")

func parseDate(s string) (time.Time, error) {
	d, err := model.ParseDate(s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// parseOptionalDate nil 或空串视为未设置
func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatDay(t time.Time) string {
	return t.Format(model.DateLayout)
}

// ── 模型 → 响应 ──

func toPersonResponse(p *model.Person) dto.PersonResponse {
	return dto.PersonResponse{
		ID:          p.PersonID,
		FullName:    p.FullName,
		Email:       p.Email,
		Institution: p.Institution,
		Role:        string(p.Role),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func toEventResponse(e *model.Event) dto.EventResponse {
	seats := e.Capacity - e.ActiveEnrollments
	if seats < 0 {
		seats = 0
	}
	return dto.EventResponse{
		ID:                   e.EventID,
		Name:                 e.Name,
		Description:          e.Description,
		StartDate:            formatDay(e.StartDate),
		EndDate:              formatDay(e.EndDate),
		Location:             e.Location,
		Capacity:             e.Capacity,
		ActiveEnrollments:    e.ActiveEnrollments,
		AvailableSeats:       seats,
		SubmissionStart:      model.FormatDate(e.SubmissionStart),
		SubmissionEnd:        model.FormatDate(e.SubmissionEnd),
		CancellationDeadline: formatDay(e.CancellationDeadline()),
		OrganizerID:          e.OrganizerID,
	}
}

func toEventResponses(events []model.Event) []dto.EventResponse {
	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, toEventResponse(&events[i]))
	}
	return result
}

func toEnrollmentResponse(en *model.Enrollment) dto.EnrollmentResponse {
	resp := dto.EnrollmentResponse{
		ID:                  en.EnrollmentID,
		EventID:             en.EventID,
		PersonID:            en.PersonID,
		EnrolledOn:          formatDay(en.EnrolledOn),
		Status:              string(en.Status),
		AttendanceConfirmed: en.AttendanceConfirmed,
	}
	if en.Person != nil {
		p := toPersonResponse(en.Person)
		resp.Person = &p
	}
	return resp
}

func toEnrollmentResponses(list []model.Enrollment) []dto.EnrollmentResponse {
	result := make([]dto.EnrollmentResponse, 0, len(list))
	for i := range list {
		result = append(result, toEnrollmentResponse(&list[i]))
	}
	return result
}

func toWorkResponse(w *model.Work) dto.WorkResponse {
	return dto.WorkResponse{
		ID:          w.WorkID,
		Title:       w.Title,
		FileRef:     w.FileRef,
		AuthorID:    w.AuthorID,
		EventID:     w.EventID,
		Status:      string(w.Status),
		SubmittedOn: formatDay(w.SubmittedOn),
	}
}

func toWorkResponses(works []model.Work) []dto.WorkResponse {
	result := make([]dto.WorkResponse, 0, len(works))
	for i := range works {
		result = append(result, toWorkResponse(&works[i]))
	}
	return result
}

func toEvaluationResponse(ev *model.Evaluation) dto.EvaluationResponse {
	return dto.EvaluationResponse{
		ID:          ev.EvaluationID,
		WorkID:      ev.WorkID,
		EvaluatorID: ev.EvaluatorID,
		Score:       ev.Score,
		Verdict:     ev.Verdict,
		EvaluatedOn: formatDay(ev.EvaluatedOn),
	}
}

func toCertificateResponse(c *model.Certificate) dto.CertificateResponse {
	return dto.CertificateResponse{
		ID:             c.CertificateID,
		Type:           string(c.Type),
		ValidationCode: c.ValidationCode,
		IssuedOn:       formatDay(c.IssuedOn),
		PersonID:       c.PersonID,
		EventID:        c.EventID,
		WorkID:         c.WorkID,
	}
}

func toCertificateResponses(certs []model.Certificate) []dto.CertificateResponse {
	result := make([]dto.CertificateResponse, 0, len(certs))
	for i := range certs {
		result = append(result, toCertificateResponse(&certs[i]))
	}
	return result
}
