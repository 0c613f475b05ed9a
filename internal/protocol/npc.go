package protocol

import (
	"encoding/json"
	"fmt"
)

// NpcDialog is the JSON-bodied subset of the NPC message area
// (0x1400-0x14FF), carried with FlagJSON set instead of the binary
// field encoding the rest of the catalogue uses. JSON keeps NPC dialog
// trees editable by hand in content tooling without a codegen step.
type NpcDialog struct {
	NpcEntityID uint64   `json:"npc_entity_id"`
	Title       string   `json:"title"`
	Text        string   `json:"text"`
	Options     []string `json:"options,omitempty"`
}

func (p *NpcDialog) MarshalBinary() []byte {
	b, _ := json.Marshal(p)
	return b
}

func (p *NpcDialog) UnmarshalBinary(b []byte) error {
	return json.Unmarshal(b, p)
}

func (p *NpcDialog) Verify() error {
	if p.Text == "" {
		return fmt.Errorf("%w: npc dialog text is empty", ErrVerifyFailed)
	}
	if len(p.Options) > 8 {
		return fmt.Errorf("%w: too many dialog options", ErrVerifyFailed)
	}
	return nil
}

// NpcInteractReq opens an interaction with a nearby NPC or static
// interactable entity (signpost, door).
type NpcInteractReq struct {
	NpcEntityID uint64 `json:"npc_entity_id"`
}

func (p *NpcInteractReq) MarshalBinary() []byte {
	b, _ := json.Marshal(p)
	return b
}

func (p *NpcInteractReq) UnmarshalBinary(b []byte) error {
	return json.Unmarshal(b, p)
}

func (p *NpcInteractReq) Verify() error {
	if p.NpcEntityID == 0 {
		return fmt.Errorf("%w: npc interact with zero entity id", ErrVerifyFailed)
	}
	return nil
}

// NpcInteractRsp answers an NpcInteractReq; Code carries the rejection
// reason (out of range, not found) and a successful interaction is
// followed by a separate NpcDialogShow carrying the actual dialog body.
type NpcInteractRsp struct {
	Code        ResponseCode `json:"code"`
	NpcEntityID uint64       `json:"npc_entity_id"`
}

func (p *NpcInteractRsp) MarshalBinary() []byte {
	b, _ := json.Marshal(p)
	return b
}

func (p *NpcInteractRsp) UnmarshalBinary(b []byte) error {
	return json.Unmarshal(b, p)
}

func (p *NpcInteractRsp) Verify() error {
	if p.Code > RespUnknown {
		return fmt.Errorf("%w: response code %d out of range", ErrVerifyFailed, p.Code)
	}
	return nil
}

// NpcMenuSelect is the client's reply to an NpcDialog carrying options.
type NpcMenuSelect struct {
	NpcEntityID uint64 `json:"npc_entity_id"`
	OptionIndex int    `json:"option_index"`
}

func (p *NpcMenuSelect) MarshalBinary() []byte {
	b, _ := json.Marshal(p)
	return b
}

func (p *NpcMenuSelect) UnmarshalBinary(b []byte) error {
	return json.Unmarshal(b, p)
}

func (p *NpcMenuSelect) Verify() error {
	if p.OptionIndex < 0 {
		return fmt.Errorf("%w: negative option index", ErrVerifyFailed)
	}
	return nil
}
