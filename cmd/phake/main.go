package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/Dynom/mxprobe/cmd/web/mxhttp"
)

const alnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const letters = "abcdefghijklmnopqrstuvwxyz"

func main() {
	var (
		numberOfAddresses int64
		batchSize         int64
		domain            = "example.test"
		host              string
		generateDomain    bool
		vegeta            bool
	)

	flag.Int64Var(&numberOfAddresses, "num-addr", 10, "Number of e-mail addresses to generate")
	flag.Int64Var(&batchSize, "batch-size", 100, "Number of addresses per /batch request")
	flag.BoolVar(&generateDomain, "gen-domain", false, "Pass the flag to generate a domain name per address")
	flag.StringVar(&domain, "domain", domain, "The domain of the generated addresses")
	flag.BoolVar(&vegeta, "vegeta", false, "Print vegeta targets for /check, instead of sending batches")
	flag.StringVar(&host, "host", "http://localhost:1338", "Where is mxprobe running?")
	flag.Parse()

	if numberOfAddresses <= 0 || batchSize <= 0 {
		flag.PrintDefaults()
		os.Exit(2)
	}

	if generateDomain {
		domain = ""
	}

	if vegeta {
		for i := int64(0); i < numberOfAddresses; i++ {
			_, _ = fmt.Fprint(os.Stdout, wrapInJSON(host, newEmailAddress(16, domain)))
		}
		return
	}

	_, _ = fmt.Fprintf(os.Stderr, "Sending %d addresses to /batch on %s\n", numberOfAddresses, host)

	client := &http.Client{
		Transport: &http.Transport{
			IdleConnTimeout:        10 * time.Second,
			MaxResponseHeaderBytes: 1 << 19,
		},
	}

	stats, err := generateAndSendBatches(os.Stderr, client, numberOfAddresses, batchSize, domain, host)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Sending failed %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Valid emails: %d\nInvalid emails: %d\n", stats.ValidCount, stats.InvalidCount)
}

func generateAndSendBatches(progress io.Writer, client *http.Client, numberOfAddresses, batchSize int64, domain, host string) (mxhttp.BatchResponse, error) {
	var total mxhttp.BatchResponse

	if numberOfAddresses < batchSize {
		batchSize = numberOfAddresses
	}

	for batchIndex := int64(0); batchIndex < numberOfAddresses; batchIndex += batchSize {
		n := batchSize
		if rest := numberOfAddresses - batchIndex; rest < n {
			n = rest
		}

		req := mxhttp.BatchRequest{
			Emails: make([]string, n),
		}

		for i := range req.Emails {
			req.Emails[i] = newEmailAddress(16, domain)
		}

		_, _ = fmt.Fprintf(progress, "Sending batch [%d/%d]\n", batchIndex, numberOfAddresses)
		res, err := sendBatch(client, req, host)
		if err != nil {
			return total, err
		}

		total.ValidCount += res.ValidCount
		total.InvalidCount += res.InvalidCount
	}

	return total, nil
}

func sendBatch(client *http.Client, batch mxhttp.BatchRequest, host string) (mxhttp.BatchResponse, error) {
	var res mxhttp.BatchResponse

	value, err := json.Marshal(batch)
	if err != nil {
		return res, err
	}

	req, err := http.NewRequest(http.MethodPost, host+"/batch", bytes.NewReader(value))
	if err != nil {
		return res, err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return res, err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return res, fmt.Errorf("bad status %d", resp.StatusCode)
	}

	err = json.NewDecoder(resp.Body).Decode(&res)
	return res, err
}

func newEmailAddress(length uint, domain string) string {
	var b = make([]byte, length)
	for i := uint(0); i < length; i++ {
		b[i] = alnum[rand.Intn(len(alnum))]
	}

	if len(domain) == 0 {
		var d = make([]byte, 20+rand.Intn(38))

		d[0] = letters[rand.Intn(len(letters))]
		for i, j := 1, len(d); i < j; i++ {
			d[i] = alnum[rand.Intn(len(alnum))]
		}

		domain = string(d) + `.test`
	}

	return string(b) + `@` + domain
}

func wrapInJSON(host, emailAddr string) string {
	var vegetaTpl = `{"method": "POST", "url": "` + host + `/check", "header": {"Content-Type": ["application/json"]}, "body": "%s"}`
	const checkTpl = `{"email": "%s"}`

	return fmt.Sprintf(
		vegetaTpl+"\n",
		base64.StdEncoding.EncodeToString(
			[]byte(fmt.Sprintf(checkTpl, emailAddr)),
		),
	)
}
