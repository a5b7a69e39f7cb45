package ws

import (
	"errors"
	"testing"

	"github.com/lotboard/lotboard-service/internal/domain/shared"
)

func TestParseClientMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		wantErr error
		want    MessageType
	}{
		{"watch", `{"type":"watch","lot_id":"7"}`, nil, MessageTypeWatch},
		{"ping", `{"type":"ping"}`, nil, MessageTypePing},
		{"missing type", `{"lot_id":"7"}`, shared.ErrMessageTypeRequired, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			msg, err := ParseClientMessage([]byte(tt.payload))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("got error %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg.Type != tt.want {
				t.Errorf("Type = %q, want %q", msg.Type, tt.want)
			}
		})
	}
}

func TestParseClientMessage_invalidJSON(t *testing.T) {
	t.Parallel()

	if _, err := ParseClientMessage([]byte(`{not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestClientMessage_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		msg     ClientMessage
		wantErr error
	}{
		{"watch with lot", ClientMessage{Type: MessageTypeWatch, LotID: "7"}, nil},
		{"watch without lot", ClientMessage{Type: MessageTypeWatch}, shared.ErrLotIDRequired},
		{"unwatch without lot", ClientMessage{Type: MessageTypeUnwatch}, shared.ErrLotIDRequired},
		{"ping", ClientMessage{Type: MessageTypePing}, nil},
		{"unknown type", ClientMessage{Type: "subscribe"}, shared.ErrUnknownMessageType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.msg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}
