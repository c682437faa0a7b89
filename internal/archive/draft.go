package archive

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/edgelog/internal/apperr"
	"github.com/starford/edgelog/internal/media"
	"github.com/starford/edgelog/internal/models"
)

// Draft is the user input a record is created from.
type Draft struct {
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Images   []string       `json:"images"`
	Audio    string         `json:"audio,omitempty"`
	Bias     models.Bias    `json:"bias,omitempty"`
	Quality  models.Quality `json:"quality,omitempty"`
	FolderID string         `json:"customFolderId,omitempty"`
}

// Validate rejects a blank title with apperr.ErrEmptyTitle and malformed
// optional fields with apperr.ErrInvalid.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return apperr.ErrEmptyTitle
	}
	err := validation.ValidateStruct(d,
		validation.Field(&d.Bias, validation.In(models.BiasBullish, models.BiasBearish)),
		validation.Field(&d.Quality, validation.In(models.QualityGood, models.QualityBad)),
		validation.Field(&d.Images, validation.Each(validation.By(isImage))),
		validation.Field(&d.Audio, validation.By(isAudio)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	return nil
}

func isImage(v any) error {
	s, _ := v.(string)
	_, err := media.DecodeImage(s)
	return err
}

func isAudio(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	_, err := media.DecodeAudio(s)
	return err
}
