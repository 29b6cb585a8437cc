package model

// Peer is a node of the network as reported by /api/peers
type Peer struct {
	IP     string `json:"ip"`
	Port   int    `json:"port"`
	Status string `json:"status"`
	Height int64  `json:"height,omitempty"`
}

// ConnectionInfo describes the network a gateway is connected to
type ConnectionInfo struct {
	Network  string `json:"network"`
	Node     string `json:"node"`
	Nethash  string `json:"nethash"`
	Version  byte   `json:"version"`
	Token    string `json:"token"`
	Symbol   string `json:"symbol"`
	Explorer string `json:"explorer"`
	Peers    []Peer `json:"peers"`
}

// HealthResponse represents response for GET /healthz
type HealthResponse struct {
	Network string `json:"network"`
	Node    string `json:"node"`
	Nethash string `json:"nethash"`
	Version byte   `json:"version"`
}
