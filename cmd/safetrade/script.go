package main

import (
	"fmt"
	"os"

	"safetrade/internal/common"

	"gopkg.in/yaml.v3"
)

// Script is a replayable session: each step either places an order or asks
// for a quote on behalf of a trader.
//
//	steps:
//	  - trader: alice
//	    order: {symbol: GGGL, side: buy, type: limit, qty: 200, price: 38}
//	  - trader: bob
//	    quote: GGGL
type Script struct {
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Trader string     `yaml:"trader"`
	Order  *OrderStep `yaml:"order,omitempty"`
	Quote  string     `yaml:"quote,omitempty"`
}

type OrderStep struct {
	Symbol string           `yaml:"symbol"`
	Side   common.Side      `yaml:"side"`
	Type   common.OrderType `yaml:"type"`
	Qty    uint64           `yaml:"qty"`
	Price  float64          `yaml:"price"`
}

func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseScript(data)
}

func parseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unable to parse script: %w", err)
	}
	for i, step := range s.Steps {
		if step.Trader == "" {
			return nil, fmt.Errorf("step %d: trader is required", i)
		}
		if (step.Order == nil) == (step.Quote == "") {
			return nil, fmt.Errorf("step %d: exactly one of order or quote is required", i)
		}
	}
	return &s, nil
}
