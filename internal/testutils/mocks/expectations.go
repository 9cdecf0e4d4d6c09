// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"
	"encoding/json"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/document"
	documentmock "github.com/KirkDiggler/rpg-sheet/internal/repositories/document/mock"
)

// ExpectLoad sets up a mock expectation for loading the persisted document
func ExpectLoad(ctx context.Context, mockRepo *documentmock.MockRepository, data string, err error) {
	var output *document.LoadOutput
	if err == nil {
		output = &document.LoadOutput{Data: data, Found: data != ""}
	}

	mockRepo.EXPECT().
		Load(ctx, &document.LoadInput{}).
		Return(output, err)
}

// ExpectSave sets up a mock expectation for any save
func ExpectSave(ctx context.Context, mockRepo *documentmock.MockRepository, err error) *gomock.Call {
	var output *document.SaveOutput
	if err == nil {
		output = &document.SaveOutput{}
	}

	return mockRepo.EXPECT().
		Save(ctx, gomock.Any()).
		Return(output, err)
}

// ExpectSaveDocument expects a save and hands the decoded document to check
func ExpectSaveDocument(ctx context.Context, mockRepo *documentmock.MockRepository, check func(sheet.Document)) *gomock.Call {
	return mockRepo.EXPECT().
		Save(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *document.SaveInput) (*document.SaveOutput, error) {
			var doc sheet.Document
			if err := json.Unmarshal([]byte(input.Data), &doc); err != nil {
				return nil, err
			}
			check(doc)
			return &document.SaveOutput{}, nil
		})
}
