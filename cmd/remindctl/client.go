package main

import (
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// call sends one request and pretty-prints the JSON response.
func call(method, path string, body interface{}) error {
	req := resty.New().R()
	if tokenFlag != "" {
		req.SetAuthToken(tokenFlag)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, apiFlag+path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	if len(resp.Body()) == 0 {
		return nil
	}
	var pretty interface{}
	if err := json.Unmarshal(resp.Body(), &pretty); err != nil {
		fmt.Println(resp.String())
		return nil
	}
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
