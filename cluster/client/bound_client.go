package client

import (
	"bytes"
	"encoding/json"
	"net/http"

	"treesearch/cluster"
)

// BoundClient talks to a BoundServer. Failed requests degrade to "no
// information": bound and incumbent reads return nothing, publishes are
// best-effort, matching the broadcast semantics of the in-process cluster.
type BoundClient struct {
	serverURL string
}

// NewBoundClient initializes and returns a new BoundClient.
func NewBoundClient(serverURL string) *BoundClient {
	return &BoundClient{
		serverURL: serverURL,
	}
}

func (bc *BoundClient) GetBound() (int, bool) {
	resp, err := http.Get(bc.serverURL + "/getBound")
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, false
	}
	var b int
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		return 0, false
	}
	return b, true
}

func (bc *BoundClient) PublishBound(b int) {
	data, _ := json.Marshal(b)
	http.Post(bc.serverURL+"/updateBound", "application/json", bytes.NewBuffer(data))
}

func (bc *BoundClient) GetIncumbent() *cluster.IncumbentMsg {
	resp, err := http.Get(bc.serverURL + "/getIncumbent")
	if err != nil || resp.StatusCode != http.StatusOK {
		return nil
	}
	defer resp.Body.Close()
	var inc cluster.IncumbentMsg
	if err := json.NewDecoder(resp.Body).Decode(&inc); err != nil {
		return nil
	}
	return &inc
}

func (bc *BoundClient) PublishIncumbent(inc cluster.IncumbentMsg) {
	data, _ := json.Marshal(inc)
	http.Post(bc.serverURL+"/updateIncumbent", "application/json", bytes.NewBuffer(data))
}

func (bc *BoundClient) PublishStop() {
	http.Post(bc.serverURL+"/stop", "application/json", nil)
}

func (bc *BoundClient) Stopped() bool {
	resp, err := http.Get(bc.serverURL + "/stopped")
	if err != nil || resp.StatusCode != http.StatusOK {
		return false
	}
	defer resp.Body.Close()
	var stopped bool
	if err := json.NewDecoder(resp.Body).Decode(&stopped); err != nil {
		return false
	}
	return stopped
}
