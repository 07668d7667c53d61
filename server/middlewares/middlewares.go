package middlewares

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/gin-gonic/gin"
)

var (
	// cognitoClient is a thread safe client that performs user authorization
	// based on the session access token. Before using this client, make sure
	// it's initialized correctly.
	cognitoClient *cognitoidentityprovider.Client
)

// Setup initialized all package scoped variables that are needed to perform
// middleware functionalities, such as Cognito client. This function must be
// called before any middleware is used.
func Setup() {
	client, err := createCognitoClient()
	if err != nil {
		// Abort directly if the Cognito isn't setup successfully, which is crucial
		// for server side authorization.
		log.Fatalf("fail to setup Cognito client: %s", err.Error())
	}
	setCognitoClient(client)
}

// createCognitoClient creates a default client with aws config located in path
// ~/.aws/config, and return error on error.
func createCognitoClient() (*cognitoidentityprovider.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, err
	}
	return cognitoidentityprovider.NewFromConfig(cfg), nil
}

func setCognitoClient(client *cognitoidentityprovider.Client) {
	cognitoClient = client
}

// sessionToken pulls the access token from the Authorization bearer header,
// falling back to the "token" query parameter for websocket-ish clients that
// cannot set headers.
func sessionToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// Session validates the caller's access token against the identity provider
// and stores the resolved user id into the request header field "sub".
// Handlers downstream read "sub" and never see the raw token. It aborts with
// 401 on a missing or invalid token.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "no valid session",
			})
			c.Abort()
			return
		}

		user, err := cognitoClient.GetUser(context.TODO(), &cognitoidentityprovider.GetUserInput{AccessToken: &token})

		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "no valid session",
			})
			c.Abort()
			return
		}

		// Successfully validated the token, replace any caller supplied "sub"
		// with the authenticated subject.
		c.Request.Header.Del("token")
		c.Request.Header.Set("sub", *user.Username)

		c.Next()
	}
}
