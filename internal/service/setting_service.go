package service

import (
	"context"

	"procurement_backend/internal/apperror"
	"procurement_backend/internal/model"
	"procurement_backend/internal/repository"
)

// signatureKeys pairs each block's label key with its name key, in display
// order.
var signatureKeys = [4][2]string{
	{model.SettingSignature1Label, model.SettingSignature1Name},
	{model.SettingSignature2Label, model.SettingSignature2Name},
	{model.SettingSignature3Label, model.SettingSignature3Name},
	{model.SettingSignature4Label, model.SettingSignature4Name},
}

// SettingService manages the configurable signature strip rendered at the
// bottom of request exports.
type SettingService interface {
	GetSignatureBlocks(ctx context.Context) ([4]model.SignatureBlock, error)
	SaveSignatureBlocks(ctx context.Context, blocks [4]model.SignatureBlock) error
}

type settingService struct {
	repo repository.SettingRepository
}

func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{repo: repo}
}

// GetSignatureBlocks returns the four signature blocks, falling back to the
// default labels for anything never configured. Names default to empty.
func (s *settingService) GetSignatureBlocks(ctx context.Context) ([4]model.SignatureBlock, error) {
	var blocks [4]model.SignatureBlock
	for i, keys := range signatureKeys {
		labelKey, nameKey := keys[0], keys[1]

		label, found, err := s.repo.Get(ctx, labelKey)
		if err != nil {
			return blocks, apperror.Storage("load signature setting", err)
		}
		if !found || label == "" {
			label = model.SignatureLabelDefaults[labelKey]
		}

		name, _, err := s.repo.Get(ctx, nameKey)
		if err != nil {
			return blocks, apperror.Storage("load signature setting", err)
		}

		blocks[i] = model.SignatureBlock{Label: label, Name: name}
	}
	return blocks, nil
}

// SaveSignatureBlocks upserts all eight keys. Empty labels are stored as-is
// and fall back to the defaults on read.
func (s *settingService) SaveSignatureBlocks(ctx context.Context, blocks [4]model.SignatureBlock) error {
	for i, keys := range signatureKeys {
		if err := s.repo.Upsert(ctx, keys[0], blocks[i].Label); err != nil {
			return apperror.Storage("save signature setting", err)
		}
		if err := s.repo.Upsert(ctx, keys[1], blocks[i].Name); err != nil {
			return apperror.Storage("save signature setting", err)
		}
	}
	return nil
}
