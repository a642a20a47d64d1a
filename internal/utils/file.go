package utils

import (
	"time"

	"github.com/JaineelPandya/social-book/internal/schemas"
)

// CreateFileDto converts a content item into its response representation.
func CreateFileDto(item *schemas.ContentItem) *schemas.FileDTO {
	dto := &schemas.FileDTO{
		FileId:        item.ID.String(),
		OwnerId:       item.OwnerID.String(),
		Title:         item.Title,
		FileURL:       "/api/my-files/" + item.ID.String() + "/download",
		YearPublished: item.YearPublished,
		Cost:          FormatCost(item.CostCents),
		Visibility:    string(item.Visibility),
		IsActive:      item.IsActive,
		FileSize:      item.FileSize,
		DownloadCount: item.DownloadCount,
		UploadedAt:    item.CreatedAt.Format(time.RFC3339),
	}
	if item.Description != nil {
		dto.Description = *item.Description
	}
	return dto
}

// CreateFileDtos converts a list of content items, never returning nil so that empty lists encode as [].
func CreateFileDtos(items []*schemas.ContentItem) []*schemas.FileDTO {
	dtos := make([]*schemas.FileDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, CreateFileDto(item))
	}
	return dtos
}

func CreateEnrollmentDto(enrollment *schemas.Enrollment) *schemas.EnrollmentDTO {
	return &schemas.EnrollmentDTO{
		FileId:    enrollment.FileID.String(),
		Name:      enrollment.Name,
		Price:     enrollment.Price,
		UpdatedAt: enrollment.UpdatedAt.Format(time.RFC3339),
	}
}
