package types

// RenderJob is one queued render request: a source image in the raw bucket
// plus a serialized AdjustmentParams payload.
type RenderJob struct {
	Id                   string `json:"id"`
	UserId               string `json:"userId"`
	FileName             string `json:"fileName"`
	S3RawKey             string `json:"s3RawKey"`
	Status               string `json:"status"`
	OutputMIME           string `json:"outputMime"`
	AdjustmentParameters string `json:"adjustmentParameters"`
	S3PublicUrl          string `json:"s3PublicUrl"`
	CreatedAt            string `json:"createdAt"`
}

// AdjustmentParams mirrors transform.AdjustmentSet on the wire. Factors
// outside their domains are clamped before rendering; job producers are UI
// sliders that cannot exceed them by construction.
type AdjustmentParams struct {
	RotationDegrees  int            `json:"rotationDegrees"`
	BrightnessFactor float64        `json:"brightnessFactor"`
	ContrastFactor   float64        `json:"contrastFactor"`
	SaturationFactor float64        `json:"saturationFactor"`
	TextOverlay      *OverlayParams `json:"textOverlay,omitempty"`
}

// OverlayParams carries the text layer settings. Colors are CSS-style hex
// strings; Bold/Italic select the font family variant.
type OverlayParams struct {
	Text           string `json:"text"`
	FontFamily     string `json:"fontFamily,omitempty"`
	FontSizePx     int    `json:"fontSizePx"`
	FillColor      string `json:"fillColor"`
	StrokeColor    string `json:"strokeColor"`
	VerticalAnchor string `json:"verticalAnchor"`
	Bold           bool   `json:"bold,omitempty"`
	Italic         bool   `json:"italic,omitempty"`
}
