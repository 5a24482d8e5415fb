package models

import "time"

type WooConfig struct {
	ID             int       `json:"id" db:"id"`
	StoreURL       string    `json:"store_url" db:"store_url"`
	ConsumerKey    string    `json:"-" db:"consumer_key"`
	ConsumerSecret string    `json:"-" db:"consumer_secret"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type WooCredentials struct {
	StoreURL       string `json:"store_url"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
}

func (c WooCredentials) IsEmpty() bool {
	return c.StoreURL == "" && c.ConsumerKey == "" && c.ConsumerSecret == ""
}
