package services

import (
	"context"

	"content-autopilot/dto"
	"content-autopilot/repositories"
)

// PipelineService encapsulates read-side logic for the API: backlog
// ideas, generated posts and posting slots, mapped to DTOs.
type PipelineService struct {
	ideas *repositories.ContentIdeaRepository
	posts *repositories.PipelinePostRepository
	slots *repositories.PostingSlotRepository
}

func NewPipelineService(ideas *repositories.ContentIdeaRepository, posts *repositories.PipelinePostRepository, slots *repositories.PostingSlotRepository) *PipelineService {
	return &PipelineService{ideas: ideas, posts: posts, slots: slots}
}

type ListInput struct {
	UserID   string
	Page     int
	PageSize int
}

func (s *PipelineService) ListIdeas(ctx context.Context, in ListInput) ([]dto.ContentIdeaDTO, error) {
	items, err := s.ideas.ListByUser(ctx, in.UserID, in.Page, in.PageSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ContentIdeaDTO, 0, len(items))
	for _, m := range items {
		out = append(out, dto.NewContentIdeaDTO(m))
	}
	return out, nil
}

func (s *PipelineService) ListPosts(ctx context.Context, in ListInput) ([]dto.PipelinePostDTO, error) {
	items, err := s.posts.ListByUser(ctx, in.UserID, in.Page, in.PageSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PipelinePostDTO, 0, len(items))
	for _, m := range items {
		out = append(out, dto.NewPipelinePostDTO(m))
	}
	return out, nil
}

func (s *PipelineService) ListSlots(ctx context.Context, userID string) ([]dto.PostingSlotDTO, error) {
	items, err := s.slots.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PostingSlotDTO, 0, len(items))
	for _, m := range items {
		out = append(out, dto.NewPostingSlotDTO(m))
	}
	return out, nil
}
