package cosigner

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zkml-cosigner/shared"
)

// maxRequestBody caps the /verify payload. Proofs are around 100 KiB
// hex-encoded; 512 KiB leaves headroom without inviting abuse.
const maxRequestBody = 512 * 1024

// Server exposes the cosigner over HTTP.
type Server struct {
	cosigner *Cosigner
	logger   *shared.Logger
}

func NewServer(cosigner *Cosigner, logger *shared.Logger) *Server {
	return &Server{cosigner: cosigner, logger: logger}
}

// Routes returns the service mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/verify", s.handleVerify)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	log := s.logger.WithRequest(requestID)

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	var req shared.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("rejected malformed request body", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, shared.VerifyResponse{
			Approved: false,
			Reason:   "JSON payload error",
		})
		return
	}

	resp, status := s.cosigner.Verify(&req)
	if resp.Approved {
		log.Info("request approved",
			zap.Uint64("nonce", resp.Nonce),
			zap.Uint64("timestamp", resp.Timestamp))
	} else {
		log.Info("request rejected",
			zap.Int("status", status),
			zap.String("reason", resp.Reason))
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already out; an encode failure here is unrecoverable.
	_ = json.NewEncoder(w).Encode(body)
}
