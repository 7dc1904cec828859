package rcon

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     ListResult
	}{
		{
			"players online",
			"There are 3 of a max of 20 players online: Steve, Alex, Herobrine",
			ListResult{Players: []string{"Steve", "Alex", "Herobrine"}, Max: 20},
		},
		{
			"empty server",
			"There are 0 of a max of 20 players online:",
			ListResult{Max: 20},
		},
		{
			"single player",
			"There are 1 of a max of 10 players online: Steve",
			ListResult{Players: []string{"Steve"}, Max: 10},
		},
		{
			"unrecognized response",
			"Unknown command",
			ListResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseList(tt.response)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList(%q) = %+v, want %+v", tt.response, got, tt.want)
			}
		})
	}
}

type fakeClient struct {
	response string
	err      error
}

func (f fakeClient) Command(ctx context.Context, command string) (string, error) {
	return f.response, f.err
}

func TestList(t *testing.T) {
	res, err := List(context.Background(), fakeClient{
		response: "There are 2 of a max of 20 players online: Steve, Alex",
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(res.Players) != 2 || res.Max != 20 {
		t.Errorf("result = %+v", res)
	}
}

func TestList_OfflineServer(t *testing.T) {
	wantErr := errors.New("connection refused")
	if _, err := List(context.Background(), fakeClient{err: wantErr}); !errors.Is(err, wantErr) {
		t.Errorf("expected dial error, got %v", err)
	}
}
