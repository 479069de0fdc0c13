package config

import "os"

// MoMoConfig holds the credentials for the signed JSON POST gateway.
type MoMoConfig struct {
	Endpoint    string
	PartnerCode string
	AccessKey   string
	SecretKey   string
	RedirectURL string
	IPNURL      string
}

// VNPayConfig holds the credentials for the query-string redirect gateway.
type VNPayConfig struct {
	BaseURL    string
	TMNCode    string
	HashSecret string
	ReturnURL  string
}

type Config struct {
	Addr        string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string
	MoMo        MoMoConfig
	VNPay       VNPayConfig
}

func Load() Config {
	return Config{
		Addr:        getenv("OUFOOD_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		MoMo: MoMoConfig{
			Endpoint:    getenv("MOMO_PAYMENT_URL", "https://test-payment.momo.vn/v2/gateway/api/create"),
			PartnerCode: getenv("MOMO_PARTNER_CODE", "MOMO"),
			AccessKey:   os.Getenv("MOMO_ACCESS_KEY"),
			SecretKey:   os.Getenv("MOMO_SECRET_KEY"),
			RedirectURL: os.Getenv("MOMO_RETURN_URL"),
			IPNURL:      os.Getenv("MOMO_IPN_URL"),
		},
		VNPay: VNPayConfig{
			BaseURL:    getenv("VNPAY_PAYMENT_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			TMNCode:    os.Getenv("VNPAY_TMN_CODE"),
			HashSecret: os.Getenv("VNPAY_HASH_SECRET"),
			ReturnURL:  os.Getenv("VNPAY_RETURN_URL"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
