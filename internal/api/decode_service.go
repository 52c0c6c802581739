package api

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/latticeforge/pinball/internal/predecoder"
)

// DecodeService is the business logic behind the HTTP decode routes: one
// decoder borrowed from the pool per batch request, and one dedicated
// decoder held in a session per in-progress streamed block.
type DecodeService struct {
	provider PredecoderProvider

	mu       sync.Mutex
	sessions map[string]*roundSession
}

type roundSession struct {
	mu       sync.Mutex
	dec      predecoder.Decoder
	variant  predecoder.Variant
	distance int
	rounds   [][]byte
}

func NewDecodeService(provider PredecoderProvider) *DecodeService {
	return &DecodeService{
		provider: provider,
		sessions: make(map[string]*roundSession),
	}
}

// DecodeBatch decodes exactly req.CodeDistance rounds in one call, the
// stateless path: the decoder is returned to the pool before this
// function returns.
func (s *DecodeService) DecodeBatch(ctx context.Context, req DecodeBatchRequest) (DecodeBatchResponse, error) {
	if len(req.Rounds) != req.CodeDistance {
		return DecodeBatchResponse{}, newInvalidRequest(fmt.Sprintf("rounds: expected %d, got %d", req.CodeDistance, len(req.Rounds)))
	}

	var block predecoder.BlockResult
	err := s.provider.WithDecoder(ctx, req.Variant, req.CodeDistance, func(dec predecoder.Decoder) error {
		b, err := dec.DecodeBatch(ctx, req.Rounds)
		if err != nil {
			return err
		}
		block = b
		return nil
	})
	if err != nil {
		return DecodeBatchResponse{}, err
	}

	resp := DecodeBatchResponse{
		RequestID:      uuid.NewString(),
		Correction:     block.Correction.Data,
		CorrectionRows: block.Correction.Rows,
		CorrectionCols: block.Correction.Cols,
		Complex:        block.Complex,
		Residual:       block.Residual.Data,
		ResidualRows:   block.Residual.Rows,
		ResidualCols:   block.Residual.Cols,
	}
	if req.ScoreLogicalError {
		isErr := predecoder.IsLogicalError(block.Correction, req.ObservableFlip)
		resp.IsLogicalError = &isErr
	}
	return resp, nil
}

// BeginSession opens a new round-streaming session for the given variant
// and distance, returning the session id the caller must attach to every
// subsequent DecodeRound call.
func (s *DecodeService) BeginSession(variant predecoder.Variant, distance int) (string, error) {
	dec, err := predecoder.New(variant, distance)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &roundSession{dec: dec, variant: variant, distance: distance}
	s.mu.Unlock()
	return id, nil
}

// DecodeRound feeds one round into a session, validating shape and
// ordering immediately via Decoder.DecodeRound. The shared
// predecoder.Decoder interface exposes no way to materialize a partial
// block's correction, so the full block result only becomes available
// once the session's last round arrives; DecodeService replays the
// buffered rounds through DecodeBatch at that point rather than
// duplicating the pipeline's internal accounting. An empty
// req.SessionID on a RoundIndex == 0 request opens a new session.
func (s *DecodeService) DecodeRound(ctx context.Context, req DecodeRoundRequest) (DecodeRoundResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		if req.RoundIndex != 0 {
			return DecodeRoundResponse{}, newInvalidRequest("session_id is required for round_index > 0")
		}
		id, err := s.BeginSession(req.Variant, req.CodeDistance)
		if err != nil {
			return DecodeRoundResponse{}, err
		}
		sessionID = id
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return DecodeRoundResponse{}, newInvalidRequest(fmt.Sprintf("session %q not found", sessionID))
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.dec.DecodeRound(ctx, req.RoundIndex, req.Bits); err != nil {
		return DecodeRoundResponse{}, err
	}
	sess.rounds = append(sess.rounds, req.Bits)

	resp := DecodeRoundResponse{
		RequestID:  uuid.NewString(),
		SessionID:  sessionID,
		RoundIndex: req.RoundIndex,
		Accepted:   true,
	}

	if req.RoundIndex != sess.distance-1 {
		return resp, nil
	}

	block, err := sess.dec.DecodeBatch(ctx, sess.rounds)
	s.endSession(sessionID)
	if err != nil {
		return resp, err
	}
	resp.Result = &DecodeBatchResponse{
		RequestID:      uuid.NewString(),
		Correction:     block.Correction.Data,
		CorrectionRows: block.Correction.Rows,
		CorrectionCols: block.Correction.Cols,
		Complex:        block.Complex,
		Residual:       block.Residual.Data,
		ResidualRows:   block.Residual.Rows,
		ResidualCols:   block.Residual.Cols,
	}
	return resp, nil
}

func (s *DecodeService) endSession(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}
