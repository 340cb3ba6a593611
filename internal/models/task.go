package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	UserAgent = "taskboard/1.0 (+https://github.com/UnknownOlympus/taskboard)"

	// DescriptionPlaceholder is shown in place of a missing description.
	DescriptionPlaceholder = "-"

	TitleMaxLength = 50
)

var ErrInvalidTask = errors.New("invalid task")

// Task is a to-do record. A nil Description means the task has none.
type Task struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

// DescriptionOrPlaceholder returns the description, or DescriptionPlaceholder when it is absent or empty.
func (t Task) DescriptionOrPlaceholder() string {
	if t.Description == nil || *t.Description == "" {
		return DescriptionPlaceholder
	}

	return *t.Description
}

// CompletedLabel renders the completion flag as "Yes" or "No".
func (t Task) CompletedLabel() string {
	if t.Completed {
		return "Yes"
	}

	return "No"
}

// TaskCreate is the payload accepted when creating a task.
type TaskCreate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Validate checks the payload and trims the title in place.
func (tc *TaskCreate) Validate() error {
	if tc.Title == nil {
		return fmt.Errorf("%w: title is required for creating a task", ErrInvalidTask)
	}

	title, err := normalizeTitle(*tc.Title)
	if err != nil {
		return err
	}
	tc.Title = &title

	return nil
}

// ToTask builds a Task from a validated payload.
func (tc *TaskCreate) ToTask() Task {
	task := Task{Description: tc.Description}
	if tc.Title != nil {
		task.Title = *tc.Title
	}
	if tc.Completed != nil {
		task.Completed = *tc.Completed
	}

	return task
}

// TaskUpdate is a partial update; only the fields present in the payload are applied.
// An explicit null description clears it.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`

	// DescriptionSet is true when the payload named the description, even as null.
	DescriptionSet bool `json:"-"`
}

func (tu *TaskUpdate) UnmarshalJSON(data []byte) error {
	type payload TaskUpdate

	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*tu = TaskUpdate(decoded)
	for key := range fields {
		if strings.EqualFold(key, "description") {
			tu.DescriptionSet = true
		}
	}

	return nil
}

// HasDescription reports whether the update sets the description, possibly to nothing.
func (tu *TaskUpdate) HasDescription() bool {
	return tu.DescriptionSet || tu.Description != nil
}

// IsEmpty reports whether the update carries no fields.
func (tu *TaskUpdate) IsEmpty() bool {
	return tu.Title == nil && !tu.HasDescription() && tu.Completed == nil
}

// Validate checks a present title and trims it in place.
func (tu *TaskUpdate) Validate() error {
	if tu.Title == nil {
		return nil
	}

	title, err := normalizeTitle(*tu.Title)
	if err != nil {
		return err
	}
	tu.Title = &title

	return nil
}

// Apply returns a copy of task with the update's fields set.
func (tu *TaskUpdate) Apply(task Task) Task {
	if tu.Title != nil {
		task.Title = *tu.Title
	}
	if tu.HasDescription() {
		task.Description = tu.Description
	}
	if tu.Completed != nil {
		task.Completed = *tu.Completed
	}

	return task
}

func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fmt.Errorf("%w: title cannot be empty or contain only whitespace", ErrInvalidTask)
	}
	if utf8.RuneCountInString(title) > TitleMaxLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", ErrInvalidTask, TitleMaxLength)
	}

	return title, nil
}
