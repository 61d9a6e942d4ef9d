package handlers

import (
	"fmt"
	"path"
	"strings"

	"github.com/scanbill/go-workers/internal/aws"
	"github.com/scanbill/go-workers/internal/format"
	"github.com/scanbill/go-workers/internal/transform"
	"github.com/scanbill/go-workers/internal/types"
	"github.com/scanbill/go-workers/internal/utils"
	"github.com/sirupsen/logrus"
)

// extForMIME picks the file extension for a rendered output key.
func extForMIME(mime string) string {
	switch mime {
	case transform.MIMEPNG:
		return "png"
	case transform.MIMEJPEG:
		return "jpg"
	case transform.MIMEGIF:
		return "gif"
	case transform.MIMEBMP:
		return "bmp"
	case transform.MIMETIFF:
		return "tiff"
	default:
		return ""
	}
}

type RenderHandler struct {
	s3Service *aws.S3Service
}

func NewRenderHandler(s3Service *aws.S3Service) *RenderHandler {
	return &RenderHandler{
		s3Service: s3Service,
	}
}

// buildAdjustments converts the wire payload into an engine AdjustmentSet.
// Factors are clamped to their domains; bold/italic flags resolve the font
// family through the formatting state instead of string concatenation.
func buildAdjustments(params *types.AdjustmentParams) (transform.AdjustmentSet, error) {
	adj := transform.AdjustmentSet{
		RotationDegrees:  params.RotationDegrees,
		BrightnessFactor: params.BrightnessFactor,
		ContrastFactor:   params.ContrastFactor,
		SaturationFactor: params.SaturationFactor,
	}

	if o := params.TextOverlay; o != nil && strings.TrimSpace(o.Text) != "" {
		fill, err := transform.ParseHexColor(o.FillColor)
		if err != nil {
			return adj, fmt.Errorf("overlay fill color: %w", err)
		}
		stroke, err := transform.ParseHexColor(o.StrokeColor)
		if err != nil {
			return adj, fmt.Errorf("overlay stroke color: %w", err)
		}

		family := o.FontFamily
		if family == "" {
			state := format.NewState()
			state.Set("overlay", format.Bold, o.Bold)
			state.Set("overlay", format.Italic, o.Italic)
			family = state.FontFamily("overlay")
		}

		adj.Overlay = &transform.TextOverlay{
			Text:           o.Text,
			FontFamily:     family,
			FontSizePx:     o.FontSizePx,
			FillColor:      fill,
			StrokeColor:    stroke,
			VerticalAnchor: transform.VerticalAnchor(o.VerticalAnchor),
		}
	}

	return adj.Clamp(), nil
}

// finalKeyFor strips the raw/ prefix and swaps the extension when an output
// media type was requested.
func finalKeyFor(s3RawKey, outMIME string) (string, error) {
	parts := strings.Split(s3RawKey, "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("unexpected S3RawKey format: %s", s3RawKey)
	}
	finalKey := parts[1]

	if ext := extForMIME(outMIME); ext != "" {
		dotIndex := strings.LastIndex(finalKey, ".")
		if dotIndex == -1 {
			return "", fmt.Errorf("unexpected S3RawKey format: %s", s3RawKey)
		}
		finalKey = fmt.Sprintf("%s.%s", finalKey[:dotIndex], ext)
	}
	return finalKey, nil
}

// RenderImage runs one job through the transform engine: read the downloaded
// source, apply the adjustments, write the rendered file under processed/.
// It returns the key the upload step should push.
func (h *RenderHandler) RenderImage(job types.RenderJob) (string, error) {
	_, downloadPath, uploadPath := h.s3Service.GetDependencyData()

	updatedDownloadPath, err := utils.PathUtil(downloadPath, job.S3RawKey)
	if err != nil {
		return "", err
	}
	imageBuffer, err := utils.ReadImageBuffer(updatedDownloadPath)
	if err != nil {
		return "", err
	}

	var params types.AdjustmentParams
	if err := utils.ParseJSON([]byte(job.AdjustmentParameters), &params); err != nil {
		return "", fmt.Errorf("failed to parse adjustment parameters: %w", err)
	}

	adj, err := buildAdjustments(&params)
	if err != nil {
		return "", err
	}

	result, err := transform.RenderBuffer(imageBuffer, adj, job.OutputMIME)
	if err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{
		"job":    job.Id,
		"width":  result.Width,
		"height": result.Height,
		"mime":   result.MIME,
	}).Info("rendered image")

	finalKey, err := finalKeyFor(job.S3RawKey, job.OutputMIME)
	if err != nil {
		return "", err
	}

	formattedUploadPath, err := utils.PathUtil(path.Join(uploadPath, "processed"), finalKey)
	if err != nil {
		return "", err
	}
	if err := utils.WriteImageBuffer(formattedUploadPath, result.Data); err != nil {
		return "", err
	}

	return fmt.Sprintf("processed/%s", finalKey), nil
}
