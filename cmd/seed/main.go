package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Seeds a demo catalog through the running API.
// Usage: go run ./cmd/seed [base-url]

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type seedCategory struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type seedProduct struct {
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Price         float64 `json:"price"`
	StockQuantity int64   `json:"stock_quantity"`
	Category      int64   `json:"category,omitempty"`
}

func main() {
	baseURL := "http://localhost:8080/api"
	if len(os.Args) > 1 {
		baseURL = os.Args[1]
	}
	client := &http.Client{}

	categories := []seedCategory{
		{Name: "Electronics", Description: "Phones, audio and accessories"},
		{Name: "Apparel", Description: "Clothing and footwear"},
		{Name: "Home", Description: "Kitchen and living"},
	}

	catIDs := make([]int64, 0, len(categories))
	for _, c := range categories {
		var created struct {
			ID int64 `json:"id"`
		}
		if err := post(client, baseURL+"/categories", c, &created); err != nil {
			fmt.Printf("create category %q failed: %v\n", c.Name, err)
			return
		}
		fmt.Printf("category %q -> id %d\n", c.Name, created.ID)
		catIDs = append(catIDs, created.ID)
	}

	products := []seedProduct{
		{Name: "Wireless Earbuds", SKU: "ELEC-001", Price: 2499.00, StockQuantity: 40, Category: catIDs[0]},
		{Name: "Bluetooth Speaker", SKU: "ELEC-002", Price: 1799.50, StockQuantity: 25, Category: catIDs[0]},
		{Name: "USB-C Charger", SKU: "ELEC-003", Price: 899.00, StockQuantity: 120, Category: catIDs[0]},
		{Name: "Cotton T-Shirt", SKU: "APP-001", Price: 499.00, StockQuantity: 80, Category: catIDs[1]},
		{Name: "Running Shoes", SKU: "APP-002", Price: 3299.00, StockQuantity: 15, Category: catIDs[1]},
		{Name: "Ceramic Mug Set", SKU: "HOME-001", Price: 649.00, StockQuantity: 60, Category: catIDs[2]},
		{Name: "Cast Iron Pan", SKU: "HOME-002", Price: 2150.00, StockQuantity: 8, Category: catIDs[2]},
	}

	for _, p := range products {
		var created struct {
			ID int64 `json:"id"`
		}
		if err := post(client, baseURL+"/products", p, &created); err != nil {
			fmt.Printf("create product %q failed: %v\n", p.Name, err)
			return
		}
		fmt.Printf("product %q -> id %d\n", p.Name, created.ID)
	}

	fmt.Println("seed done")
}

func post(client *http.Client, url string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("bad response (%d): %s", resp.StatusCode, raw)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, envelope.Msg)
	}
	if out != nil && envelope.Data != nil {
		return json.Unmarshal(envelope.Data, out)
	}
	return nil
}
