package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/pechaform/internal/chunker"
	"github.com/dgallion1/pechaform/internal/verse"
)

type versesRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"` // "plain" (default) or "table"
}

type verseLine struct {
	Text  string `json:"text"`
	Verse bool   `json:"verse"`
	Kind  string `json:"kind,omitempty"`
}

type versesResponse struct {
	IsVerse   bool        `json:"is_verse"`
	VerseSize int         `json:"verse_size"`
	Lines     []verseLine `json:"lines"`
}

// handleVerses splits one paragraph into verse lines.
func (s *Server) handleVerses(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req versesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	cfg := s.verse
	switch req.Mode {
	case "", "plain":
		cfg.Chunking.Mode = chunker.ModePlain
	case "table":
		cfg.Chunking.Mode = chunker.ModeTable
	default:
		jsonError(w, "mode must be plain or table", http.StatusBadRequest)
		return
	}

	res, lines := verse.Split(req.Text, cfg)
	resp := versesResponse{
		IsVerse:   res.IsVerse,
		VerseSize: res.VerseSize,
		Lines:     make([]verseLine, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, verseLine{Text: l.Text, Verse: l.Verse, Kind: l.Kind})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
