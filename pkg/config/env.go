package config

const EnvPrefix = "SHOPPINGCART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DistanceModePostGIS   = "postgis"
	DistanceModeHaversine = "haversine"
)

const (
	EnvAppEnv      = "SHOPPINGCART_APP_ENV"
	EnvPort        = "SHOPPINGCART_APP_PORT"
	EnvLogLevel    = "SHOPPINGCART_LOG_LEVEL"
	EnvCORSOrigins = "SHOPPINGCART_CORS_ALLOWED_ORIGINS"

	EnvDBDSN  = "SHOPPINGCART_DB_DSN"
	EnvDBHost = "SHOPPINGCART_DB_HOST"
	EnvDBUser = "SHOPPINGCART_DB_USER"
	EnvDBName = "SHOPPINGCART_DB_NAME"

	EnvRedisURL = "SHOPPINGCART_REDIS_URL"

	EnvJWTSecret = "SHOPPINGCART_JWT_SECRET"
	EnvJWTIssuer = "SHOPPINGCART_JWT_ISSUER"

	EnvProductServiceURL    = "SHOPPINGCART_PRODUCT_SERVICE_URL"
	EnvRestaurantServiceURL = "SHOPPINGCART_RESTAURANT_SERVICE_URL"
	EnvUserServiceURL       = "SHOPPINGCART_USER_SERVICE_URL"

	EnvShippingBaseCost   = "SHOPPINGCART_SHIPPING_BASE_COST"
	EnvShippingStepCost   = "SHOPPINGCART_SHIPPING_STEP_COST"
	EnvShippingFreeRadius = "SHOPPINGCART_SHIPPING_FREE_RADIUS_METERS"
	EnvShippingStepMeters = "SHOPPINGCART_SHIPPING_STEP_METERS"

	EnvRateLimit = "SHOPPINGCART_RATE_LIMIT"

	EnvUseSQLite    = "SHOPPINGCART_USE_SQLITE"
	EnvDistanceMode = "SHOPPINGCART_DISTANCE_MODE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
