package urls

// Documentation URLs for the Mattermost server features mmprobe exercises.

// APIReference is the Mattermost v4 REST API reference.
const APIReference = "https://api.mattermost.com/"

// PingEndpoint documents GET /api/v4/system/ping.
const PingEndpoint = "https://api.mattermost.com/#tag/system/operation/GetPing"

// CreateUserEndpoint documents POST /api/v4/users.
const CreateUserEndpoint = "https://api.mattermost.com/#tag/users/operation/CreateUser"

// WebSocketAPI describes the server event stream.
const WebSocketAPI = "https://api.mattermost.com/#tag/WebSocket"

// SignupSettings covers the settings that allow or block open account creation.
const SignupSettings = "https://docs.mattermost.com/configure/authentication-configuration-settings.html#enable-account-creation"

// ServerTroubleshooting is the server administrator's troubleshooting guide.
const ServerTroubleshooting = "https://docs.mattermost.com/install/troubleshooting.html"
