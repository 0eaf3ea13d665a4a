package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseType(t *testing.T) {
	typ, err := ParseType([]byte(`{"type":"fetchBounties","params":{"page":2}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != TypeFetchBounties {
		t.Errorf("type = %q, want %q", typ, TypeFetchBounties)
	}
}

func TestParseType_InvalidJSON(t *testing.T) {
	if _, err := ParseType([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestVoteToggled_FalseValuesSurvive(t *testing.T) {
	// A server-confirmed "unvoted" state must serialize voted:false and
	// count:0 instead of dropping the fields.
	msg := NewVoteToggled("b1", false, 0)
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"voted":false`) {
		t.Errorf("missing voted:false in %s", s)
	}
	if !strings.Contains(s, `"count":0`) {
		t.Errorf("missing count:0 in %s", s)
	}
	if !strings.Contains(s, `"bountyId":"b1"`) {
		t.Errorf("missing bountyId in %s", s)
	}
}

func TestBookmarkToggled_Shape(t *testing.T) {
	msg := NewBookmarkToggled("b2", true)
	data, _ := json.Marshal(msg)
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != TypeBookmarkToggled {
		t.Errorf("type = %v", decoded["type"])
	}
	if decoded["bookmarked"] != true {
		t.Errorf("bookmarked = %v", decoded["bookmarked"])
	}
	if _, present := decoded["voted"]; present {
		t.Error("voted should be omitted from bookmarkToggled")
	}
}

func TestInboundMessage_Decode(t *testing.T) {
	var msg Message
	raw := `{"type":"fetchBounties","params":{"page":3,"limit":10,"status":"open"}}`
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != TypeFetchBounties {
		t.Errorf("type = %q", msg.Type)
	}
	if msg.Params == nil || msg.Params.Page != 3 || msg.Params.Limit != 10 || msg.Params.Status != "open" {
		t.Errorf("params = %+v", msg.Params)
	}
}

func TestErrorMessage(t *testing.T) {
	msg := NewError("boom")
	if msg.Type != TypeError || msg.Message != "boom" {
		t.Errorf("got %+v", msg)
	}
}
