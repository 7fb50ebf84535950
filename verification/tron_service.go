package verification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	config "github.com/usdstake/backend/configs"
)

const tronGridBaseURL = "https://api.trongrid.io"

type tronTxRequest struct {
	Value string `json:"value"`
}

type tronTxResponse struct {
	TxID string `json:"txID"`
	Ret  []struct {
		ContractRet string `json:"contractRet"`
	} `json:"ret"`
}

// Enabled reports whether automatic deposit verification is switched on. When
// off, every deposit stays Pending until an admin reviews it.
func Enabled() bool {
	return config.Config("TRON_VERIFICATION_ENABLED") == "true"
}

// VerifyDeposit is a best-effort, swappable oracle: it only checks that the
// transaction exists on chain and executed successfully. It does NOT decode
// the TRC20 transfer to match amount and address against the claim; a false
// return just leaves the deposit Pending for manual review.
func VerifyDeposit(txID string, amount float64, address string) bool {
	body, err := json.Marshal(tronTxRequest{Value: txID})
	if err != nil {
		return false
	}

	url := fmt.Sprintf("%s/wallet/gettransactionbyid", tronGridBaseURL)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	if err != nil {
		return false
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	if apiKey := config.Config("TRONGRID_API_KEY"); apiKey != "" {
		req.Header.Set("TRON-PRO-API-KEY", apiKey)
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("TronGrid request failed for tx %s: %v", txID, err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("TronGrid error for tx %s: status %d, body: %s", txID, resp.StatusCode, string(respBody))
		return false
	}

	var tx tronTxResponse
	if err := json.Unmarshal(respBody, &tx); err != nil {
		return false
	}

	if tx.TxID == "" {
		log.Printf("Transaction %s not found on chain", txID)
		return false
	}
	for _, ret := range tx.Ret {
		if ret.ContractRet == "SUCCESS" {
			return true
		}
	}
	return false
}
