package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "client":
		handleClient(args)
	case "salesperson":
		handleSalesperson(args)
	case "debt":
		handleDebt(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cobranza - debt tracking CLI

Usage:
  cobranza client <add|list>
  cobranza salesperson <add|list>
  cobranza debt <add|list|pending|paid|pay|on-day>

Environment:
  COBRANZA_API  base URL of the server (default http://localhost:8080)`)
}

func handleClient(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: cobranza client <add|list>")
		return
	}

	switch args[0] {
	case "add":
		addClient(args[1:])
	case "list":
		listClients()
	default:
		fmt.Printf("unknown client command: %s\n", args[0])
	}
}

func handleSalesperson(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: cobranza salesperson <add|list>")
		return
	}

	switch args[0] {
	case "add":
		addSalesperson(args[1:])
	case "list":
		listSalespeople()
	default:
		fmt.Printf("unknown salesperson command: %s\n", args[0])
	}
}

func handleDebt(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: cobranza debt <add|list|pending|paid|pay|on-day>")
		return
	}

	switch args[0] {
	case "add":
		addDebt(args[1:])
	case "list":
		listDebts("/deudas")
	case "pending":
		listDebts("/deudas/pendientes")
	case "paid":
		listDebts("/deudas/pagadas")
	case "pay":
		payDebt(args[1:])
	case "on-day":
		debtsOnDay(args[1:])
	default:
		fmt.Printf("unknown debt command: %s\n", args[0])
	}
}

func addClient(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "client name")
	phone := fs.String("phone", "", "client phone number")
	company := fs.String("company", "", "company tag (optional)")

	fs.Parse(args)

	if *name == "" || *phone == "" {
		fmt.Println("Error: name and phone are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"nombre": *name, "telefono": *phone}
	if *company != "" {
		payload["compania"] = *company
	}
	postJSON("/clientes", payload)
}

func listClients() {
	var clients []map[string]interface{}
	if !getJSON("/clientes", &clients) {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tCOMPANY")
	for _, c := range clients {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\n", c["id"], c["nombre"], c["telefono"], c["compania"])
	}
	w.Flush()
}

func addSalesperson(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	name := fs.String("name", "", "salesperson name")

	fs.Parse(args)

	if *name == "" {
		fmt.Println("Error: name is required")
		fs.PrintDefaults()
		return
	}
	postJSON("/vendedores", map[string]string{"nombre": *name})
}

func listSalespeople() {
	var salespeople []map[string]interface{}
	if !getJSON("/vendedores", &salespeople) {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, s := range salespeople {
		fmt.Fprintf(w, "%v\t%v\n", s["id"], s["nombre"])
	}
	w.Flush()
}

func addDebt(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	client := fs.String("client", "", "client ID")
	amount := fs.Float64("amount", 0, "debt amount")

	fs.Parse(args)

	if *client == "" || *amount <= 0 {
		fmt.Println("Error: client and a positive amount are required")
		fs.PrintDefaults()
		return
	}
	postJSON("/deudas", map[string]interface{}{"cliente": *client, "monto": *amount})
}

func payDebt(args []string) {
	fs := flag.NewFlagSet("pay", flag.ExitOnError)
	debt := fs.String("debt", "", "debt ID")
	salesperson := fs.String("salesperson", "", "collecting salesperson ID")
	date := fs.String("date", "", "payment date YYYY-MM-DD (optional, defaults to now)")

	fs.Parse(args)

	if *debt == "" || *salesperson == "" {
		fmt.Println("Error: debt and salesperson are required")
		fs.PrintDefaults()
		return
	}

	payload := map[string]string{"vendedorPago": *salesperson}
	if *date != "" {
		payload["fechaPago"] = *date
	}

	data, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPut, getAPIURL()+"/deudas/pagar/"+*debt, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 200 {
		fmt.Printf("✓ Debt paid: %v\n", result["id"])
	} else {
		fmt.Printf("✗ Payment failed (%d): %v\n", resp.StatusCode, result["error"])
	}
}

func debtsOnDay(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: cobranza debt on-day <YYYY-MM-DD>")
		return
	}
	listDebts("/deudas/pagadas/dia/" + args[0])
}

func listDebts(path string) {
	var debts []map[string]interface{}
	if !getJSON(path, &debts) {
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLIENT\tAMOUNT\tSTATE\tPAID BY\tPAID AT")
	for _, d := range debts {
		client := "-"
		if c, ok := d["cliente"].(map[string]interface{}); ok {
			client = fmt.Sprintf("%v", c["nombre"])
		}
		paidBy := "-"
		if s, ok := d["vendedorPago"].(map[string]interface{}); ok {
			paidBy = fmt.Sprintf("%v", s["nombre"])
		}
		paidAt := "-"
		if p, ok := d["fechaPago"].(string); ok {
			paidAt = p
		}
		fmt.Fprintf(w, "%v\t%s\t%v\t%v\t%s\t%s\n", d["id"], client, d["monto"], d["estado"], paidBy, paidAt)
	}
	w.Flush()
}

func getJSON(path string, out interface{}) bool {
	resp, err := http.Get(getAPIURL() + path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		fmt.Printf("✗ Request failed (%d): %v\n", resp.StatusCode, result["error"])
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		fmt.Printf("Error: %v\n", err)
		return false
	}
	return true
}

func postJSON(path string, payload interface{}) {
	data, _ := json.Marshal(payload)
	resp, err := http.Post(getAPIURL()+path, "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if resp.StatusCode == 201 {
		fmt.Printf("✓ Created: %v\n", result["id"])
	} else {
		fmt.Printf("✗ Request failed (%d): %v\n", resp.StatusCode, result["error"])
	}
}

func getAPIURL() string {
	if url := os.Getenv("COBRANZA_API"); url != "" {
		return url
	}
	return "http://localhost:8080"
}
