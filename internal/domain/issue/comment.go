package issue

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"campusdesk/internal/shared/biztime"
)

const maxCommentLength = 5000

type Comment struct {
	id        uint
	issueID   uint
	authorID  uint
	parentID  *uint
	content   string
	isEdited  bool
	createdAt time.Time
	updatedAt time.Time
}

func NewComment(
	issueID uint,
	authorID uint,
	content string,
) (*Comment, error) {
	if issueID == 0 {
		return nil, fmt.Errorf("issue ID is required")
	}
	if authorID == 0 {
		return nil, fmt.Errorf("author ID is required")
	}
	if err := validateContent(content); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &Comment{
		issueID:   issueID,
		authorID:  authorID,
		content:   content,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructComment(
	id uint,
	issueID uint,
	authorID uint,
	parentID *uint,
	content string,
	isEdited bool,
	createdAt, updatedAt time.Time,
) (*Comment, error) {
	if id == 0 {
		return nil, fmt.Errorf("comment ID cannot be zero")
	}
	if issueID == 0 {
		return nil, fmt.Errorf("issue ID is required")
	}
	if parentID != nil && *parentID == id {
		return nil, fmt.Errorf("comment %d cannot be its own parent", id)
	}

	return &Comment{
		id:        id,
		issueID:   issueID,
		authorID:  authorID,
		parentID:  parentID,
		content:   content,
		isEdited:  isEdited,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func validateContent(content string) error {
	if len(strings.TrimSpace(content)) == 0 {
		return fmt.Errorf("content cannot be empty")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return fmt.Errorf("content exceeds maximum length of %d characters", maxCommentLength)
	}
	return nil
}

func (c *Comment) ID() uint {
	return c.id
}

func (c *Comment) IssueID() uint {
	return c.issueID
}

func (c *Comment) AuthorID() uint {
	return c.authorID
}

func (c *Comment) ParentID() *uint {
	return c.parentID
}

func (c *Comment) IsReply() bool {
	return c.parentID != nil
}

func (c *Comment) Content() string {
	return c.content
}

func (c *Comment) IsEdited() bool {
	return c.isEdited
}

func (c *Comment) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Comment) UpdatedAt() time.Time {
	return c.updatedAt
}

func (c *Comment) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("comment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("comment ID cannot be zero")
	}
	if c.parentID != nil && *c.parentID == id {
		return fmt.Errorf("comment %d cannot be its own parent", id)
	}
	c.id = id
	return nil
}

// ReplyTo attaches the comment under parent. The parent must be a persisted
// comment on the same issue.
func (c *Comment) ReplyTo(parent *Comment) error {
	if parent == nil || parent.id == 0 {
		return fmt.Errorf("%w: parent is not persisted", ErrInvalidParent)
	}
	if parent.issueID != c.issueID {
		return fmt.Errorf("%w: parent %d is on issue %d", ErrInvalidParent, parent.id, parent.issueID)
	}
	if c.id != 0 && parent.id == c.id {
		return fmt.Errorf("%w: comment cannot reply to itself", ErrInvalidParent)
	}
	parentID := parent.id
	c.parentID = &parentID
	return nil
}

// Edit replaces the content and marks the comment as edited.
func (c *Comment) Edit(content string) error {
	if err := validateContent(content); err != nil {
		return err
	}
	c.content = content
	c.isEdited = true
	c.updatedAt = biztime.NowUTC()
	return nil
}
