package dto

import (
	"time"

	"campusdesk/internal/domain/issue"
)

// MarkdownRenderer turns comment markdown into sanitized HTML.
type MarkdownRenderer interface {
	ToHTMLSanitized(markdown string) (string, error)
}

type CommentDTO struct {
	ID          uint          `json:"id"`
	IssueID     uint          `json:"issue_id"`
	AuthorID    uint          `json:"author_id"`
	ParentID    *uint         `json:"parent_id"`
	Content     string        `json:"content"`
	ContentHTML string        `json:"content_html"`
	IsEdited    bool          `json:"is_edited"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Replies     []*CommentDTO `json:"replies"`
}

// ToCommentDTO renders one comment. A render failure leaves ContentHTML empty;
// the raw content is always present.
func ToCommentDTO(c *issue.Comment, renderer MarkdownRenderer) *CommentDTO {
	if c == nil {
		return nil
	}
	out := &CommentDTO{
		ID:        c.ID(),
		IssueID:   c.IssueID(),
		AuthorID:  c.AuthorID(),
		ParentID:  c.ParentID(),
		Content:   c.Content(),
		IsEdited:  c.IsEdited(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
		Replies:   []*CommentDTO{},
	}
	if renderer != nil {
		if html, err := renderer.ToHTMLSanitized(c.Content()); err == nil {
			out.ContentHTML = html
		}
	}
	return out
}

// ToThreadDTOs converts a comment forest, keeping the order of every level.
func ToThreadDTOs(nodes []*issue.ThreadNode, renderer MarkdownRenderer) []*CommentDTO {
	out := make([]*CommentDTO, 0, len(nodes))
	for _, node := range nodes {
		d := ToCommentDTO(node.Comment, renderer)
		d.Replies = ToThreadDTOs(node.Replies, renderer)
		out = append(out, d)
	}
	return out
}
