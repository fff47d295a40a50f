package handlers

import (
	"strconv"

	"github.com/campus-kit/helpdesk-service/internal/api/dto"
	"github.com/campus-kit/helpdesk-service/internal/domain"
	"github.com/campus-kit/helpdesk-service/internal/service"
)

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:            ticket.ID,
		TicketNumber:  ticket.TicketNumber,
		CategoryID:    ticket.CategoryID,
		SubCategoryID: ticket.SubCategoryID,
		Title:         ticket.Title,
		Status:        ticket.Status,
		StatusRank:    ticket.Status.Rank(),
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}

func ticketSummaries(tickets []domain.Ticket) []dto.TicketSummary {
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return items
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	resp := dto.TicketDetailResponse{
		TicketSummary: ticketSummary(&detail.Ticket),
		Description:   detail.Ticket.Description,
		PhotoKey:      detail.Ticket.PhotoKey,
		StudentID:     detail.Ticket.StudentID,
		Assignments:   assignmentResponses(detail.ActiveAssignments),
		Comments:      commentResponses(detail.Comments),
		Events:        eventResponses(detail.Events),
	}
	if len(detail.AssignmentHistory) > 0 {
		resp.AssignmentHistory = assignmentResponses(detail.AssignmentHistory)
	}
	if detail.Feedback != nil {
		feedback := feedbackResponse(detail.Feedback)
		resp.Feedback = &feedback
	}
	return resp
}

func assignmentResponses(assignments []domain.Assignment) []dto.AssignmentResponse {
	items := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		items = append(items, dto.AssignmentResponse{
			ID:           assignment.ID,
			EmployeeID:   assignment.EmployeeID,
			Role:         assignment.Role,
			AssignedBy:   assignment.AssignedByID,
			Notes:        assignment.Notes,
			Active:       assignment.Active,
			AssignedAt:   assignment.AssignedAt,
			SupersededAt: assignment.SupersededAt,
		})
	}
	return items
}

func commentResponses(comments []domain.Comment) []dto.CommentResponse {
	items := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, commentResponse(&comment))
	}
	return items
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         comment.ID,
		AuthorType: comment.AuthorType,
		AuthorID:   comment.AuthorID,
		Body:       comment.Body,
		IsInternal: comment.Internal,
		CreatedAt:  comment.CreatedAt,
	}
}

func feedbackResponse(feedback *domain.Feedback) dto.FeedbackResponse {
	return dto.FeedbackResponse{
		ID:        feedback.ID,
		Rating:    feedback.Rating,
		Text:      feedback.Text,
		CreatedAt: feedback.CreatedAt,
	}
}

func eventResponses(events []domain.TicketEvent) []dto.EventResponse {
	items := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		items = append(items, dto.EventResponse{
			ID:        event.ID,
			TicketID:  event.TicketID,
			Kind:      event.Kind,
			ActorType: event.ActorType,
			ActorID:   event.ActorID,
			OldValue:  event.OldValue,
			NewValue:  event.NewValue,
			Notes:     event.Notes,
			CreatedAt: event.CreatedAt,
		})
	}
	return items
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
