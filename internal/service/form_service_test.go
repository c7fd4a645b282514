package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedbackhub/internal/model"
)

const (
	owner    = "65a0000000000000000000aa"
	stranger = "65a0000000000000000000bb"
)

func TestFormService_CreateNormalizes(t *testing.T) {
	f := newFixture(t)
	form, err := f.forms.Create(context.Background(), owner, model.FormRequest{
		Questions: []model.QuestionRequest{
			{},
			{ID: "keep-me", Title: "Rate", Type: model.QuestionTypeRating, Required: true},
		},
		SubmissionSettings: &model.SubmissionSettingsRequest{AllowNamed: boolPtr(false)},
	})
	require.NoError(t, err)

	assert.Equal(t, "Untitled Form", form.Title)
	assert.Equal(t, model.FormDraft, form.Status)
	assert.False(t, form.IsPublished)
	assert.Equal(t, owner, form.CreatedBy)
	assert.Equal(t, model.SubmissionSettings{AllowAnonymous: true, AllowNamed: false}, form.SubmissionSettings)

	require.Len(t, form.Questions, 2)
	first := form.Questions[0]
	assert.Len(t, first.ID, 24)
	assert.Equal(t, "Untitled Question", first.Title)
	assert.Equal(t, model.QuestionTypeMultipleChoice, first.Type)
	assert.NotNil(t, first.Options)
	assert.Equal(t, "keep-me", form.Questions[1].ID)
}

func TestFormService_RejectsDuplicateQuestionIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dup := []model.QuestionRequest{
		{ID: "q1", Title: "Rate", Type: model.QuestionTypeRating},
		{ID: "q1", Title: "Again", Type: model.QuestionTypeYesNo},
	}

	_, err := f.forms.Create(ctx, owner, model.FormRequest{Status: "published", Questions: dup})
	assertServiceError(t, err, ErrValidation, "Duplicate question id")

	form := f.publishedForm(t, owner)
	_, err = f.forms.Update(ctx, form.ID, owner, model.FormRequest{Questions: dup})
	assertServiceError(t, err, ErrValidation, "Duplicate question id")

	stored, err := f.forms.Get(ctx, form.ID, owner)
	require.NoError(t, err)
	assert.Len(t, stored.Questions, 3)

	// the stored form still yields analytics
	snap, err := f.analytics.FormAnalytics(ctx, form.ID, owner)
	require.NoError(t, err)
	assert.Len(t, snap.Questions, 3)
}

func TestFormService_GetVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	draft, err := f.forms.Create(ctx, owner, model.FormRequest{Title: strPtr("Draft")})
	require.NoError(t, err)

	_, err = f.forms.Get(ctx, draft.ID, "")
	assertServiceError(t, err, ErrForbidden, "Form is not published")
	_, err = f.forms.Get(ctx, draft.ID, stranger)
	assertServiceError(t, err, ErrForbidden, "Form is not published")

	got, err := f.forms.Get(ctx, draft.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Title)

	pub := f.publishedForm(t, owner)
	got, err = f.forms.Get(ctx, pub.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.FormPublished, got.Status)

	_, err = f.forms.Get(ctx, "not-an-id", "")
	assertServiceError(t, err, ErrValidation, "Invalid form id")
	_, err = f.forms.Get(ctx, "65a000000000000000000999", "")
	assertServiceError(t, err, ErrNotFound, "Form not found")
}

func TestFormService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	form, err := f.forms.Create(ctx, owner, model.FormRequest{Title: strPtr("Old"), Description: strPtr("keep")})
	require.NoError(t, err)

	_, err = f.forms.Update(ctx, form.ID, stranger, model.FormRequest{Title: strPtr("Hijack")})
	assertServiceError(t, err, ErrForbidden, "Forbidden")

	updated, err := f.forms.Update(ctx, form.ID, owner, model.FormRequest{
		Title:       strPtr("New"),
		IsPublished: boolPtr(true),
		Questions:   []model.QuestionRequest{{Title: "Why?", Type: model.QuestionTypeParagraph}},
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "keep", updated.Description)
	assert.True(t, updated.IsPublished)
	assert.Equal(t, model.FormPublished, updated.Status)
	require.Len(t, updated.Questions, 1)

	// status wins over isPublished
	updated, err = f.forms.Update(ctx, form.ID, owner, model.FormRequest{Status: "draft", IsPublished: boolPtr(true)})
	require.NoError(t, err)
	assert.False(t, updated.IsPublished)
	assert.Equal(t, model.FormDraft, updated.Status)
	assert.Len(t, updated.Questions, 1)

	assert.Equal(t, []string{form.ID, form.ID}, f.cache.invalidated)
}

func TestFormService_ListMineWithCounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := f.publishedForm(t, owner)
	time.Sleep(time.Millisecond)
	second := f.publishedForm(t, owner)
	f.publishedForm(t, stranger)

	for i := 0; i < 3; i++ {
		_, err := f.responses.Submit(ctx, first.ID, model.SubmitResponseRequest{})
		require.NoError(t, err)
	}

	list, err := f.forms.ListMine(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, 0, list[0].ResponseCount)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, 3, list[1].ResponseCount)
}

func TestFormService_ListPublished(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pub := f.publishedForm(t, owner)
	_, err := f.forms.Create(ctx, owner, model.FormRequest{Title: strPtr("Draft")})
	require.NoError(t, err)

	list, err := f.forms.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.PublishedForm{
		ID:                 pub.ID,
		Title:              "Course Feedback",
		Status:             model.FormPublished,
		SubmissionSettings: model.DefaultSubmissionSettings(),
		QuestionCount:      3,
	}, list[0])
}

func TestFormService_PublishAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	form, err := f.forms.Create(ctx, owner, model.FormRequest{})
	require.NoError(t, err)

	_, err = f.responses.Submit(ctx, form.ID, model.SubmitResponseRequest{})
	assertServiceError(t, err, ErrNotFound, "Form not available")

	published, err := f.forms.Publish(ctx, form.ID, owner)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)

	_, err = f.responses.Submit(ctx, form.ID, model.SubmitResponseRequest{})
	require.NoError(t, err)

	assertServiceError(t, f.forms.Delete(ctx, form.ID, stranger), ErrForbidden, "Forbidden")
	require.NoError(t, f.forms.Delete(ctx, form.ID, owner))

	_, err = f.forms.Get(ctx, form.ID, owner)
	assertServiceError(t, err, ErrNotFound, "Form not found")
	remaining, err := f.mem.Responses().ListByForm(ctx, form.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestGenerateDraft(t *testing.T) {
	_, err := GenerateDraft("   ")
	assertServiceError(t, err, ErrValidation, "Prompt is required")

	draft, err := GenerateDraft("  NLP Bootcamp ")
	require.NoError(t, err)
	assert.Equal(t, "NLP Bootcamp Feedback Form", draft.Title)
	assert.Equal(t, "Please provide your feedback for NLP Bootcamp.", draft.Description)
	require.Len(t, draft.Questions, 5)
	assert.Equal(t, []model.QuestionType{
		model.QuestionTypeRating, model.QuestionTypeShortAnswer, model.QuestionTypeYesNo,
		model.QuestionTypeMultipleChoice, model.QuestionTypeParagraph,
	}, []model.QuestionType{
		draft.Questions[0].Type, draft.Questions[1].Type, draft.Questions[2].Type,
		draft.Questions[3].Type, draft.Questions[4].Type,
	})
	assert.Equal(t, "Machine Learning Fundamentals", draft.Questions[3].Options[0])
	assert.False(t, draft.Questions[4].Required)

	general, err := GenerateDraft("Cooking Workshop")
	require.NoError(t, err)
	assert.Equal(t, "Hands-on Activities", general.Questions[3].Options[0])

	again, err := GenerateDraft("Cooking Workshop")
	require.NoError(t, err)
	assert.Equal(t, general, again)
}
