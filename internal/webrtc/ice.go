package webrtc

import (
	"github.com/immxrtalbeast/gatherly/internal/config"
	"github.com/pion/webrtc/v3"
)

// ICEServers assembles the server list handed to browser peers: the
// configured STUN servers plus TURN when credentials are present.
func ICEServers(cfg config.WebRTCConfig) []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, len(cfg.STUNServers)+1)
	for _, url := range cfg.STUNServers {
		servers = append(servers, webrtc.ICEServer{URLs: []string{url}})
	}

	if cfg.TURN.URL != "" && cfg.TURN.Username != "" {
		servers = append(servers, webrtc.ICEServer{
			URLs:           []string{cfg.TURN.URL},
			Username:       cfg.TURN.Username,
			Credential:     cfg.TURN.Credential,
			CredentialType: webrtc.ICECredentialTypePassword,
		})
	}

	return servers
}
