package api

import "github.com/latticeforge/pinball/internal/predecoder"

// DecodeBatchRequest decodes exactly CodeDistance rounds of syndrome bits
// through one block, matching Decoder.DecodeBatch. Each entry in Rounds is
// a flat row-major R*C byte slice for that round; Go's JSON encoding
// carries []byte as base64, which keeps the wire payload compact for what
// is otherwise a dense bit matrix.
type DecodeBatchRequest struct {
	Variant           predecoder.Variant `json:"variant"`
	CodeDistance      int                `json:"code_distance"`
	Rounds            [][]byte           `json:"rounds"`
	ObservableFlip    bool               `json:"observable_flip"`
	ScoreLogicalError bool               `json:"score_logical_error"`
}

// DecodeBatchResponse mirrors predecoder.BlockResult, flattened for the
// wire: Correction is CodeDistance x CodeDistance, Residual is the
// catalog's R x C ancilla shape.
type DecodeBatchResponse struct {
	RequestID        string `json:"request_id"`
	Correction       []byte `json:"correction"`
	CorrectionRows   int    `json:"correction_rows"`
	CorrectionCols   int    `json:"correction_cols"`
	Complex          bool   `json:"complex"`
	Residual         []byte `json:"residual"`
	ResidualRows     int    `json:"residual_rows"`
	ResidualCols     int    `json:"residual_cols"`
	IsLogicalError   *bool  `json:"is_logical_error,omitempty"`
}

// DecodeRoundRequest feeds a single round's flat syndrome bits through an
// in-progress block at RoundIndex. SessionID is empty on the first round
// of a block, which opens a new session server-side; every subsequent
// round in that block must echo the SessionID the first response returned.
type DecodeRoundRequest struct {
	SessionID    string             `json:"session_id,omitempty"`
	Variant      predecoder.Variant `json:"variant"`
	CodeDistance int                `json:"code_distance"`
	RoundIndex   int                `json:"round_index"`
	Bits         []byte             `json:"bits"`
}

// DecodeRoundResponse acknowledges a fed round. Result is populated only
// once RoundIndex == CodeDistance-1, when the session's block result
// becomes available and the session is closed.
type DecodeRoundResponse struct {
	RequestID  string               `json:"request_id"`
	SessionID  string               `json:"session_id"`
	RoundIndex int                  `json:"round_index"`
	Accepted   bool                 `json:"accepted"`
	Result     *DecodeBatchResponse `json:"result,omitempty"`
}

// HealthResponse is returned by GET /v1/healthz.
type HealthResponse struct {
	Status string `json:"status"`
}
