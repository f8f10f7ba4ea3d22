package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type KickaboutStackProps struct {
	awscdk.StackProps
}

func NewKickaboutStack(scope constructs.Construct, id string, props *KickaboutStackProps) awscdk.Stack {
	var stackProps awscdk.StackProps
	if props != nil {
		stackProps = props.StackProps
	}

	stack := awscdk.NewStack(scope, &id, &stackProps)

	// The app keeps its league in Postgres; the DSN comes from the deploy
	// environment so no credentials end up in the synthesized template
	// source. Leaving it empty runs the Lambda on the in-memory store.
	lambdaFn := awslambda.NewFunction(stack, jsii.String("KickaboutApp"), &awslambda.FunctionProps{
		Runtime: awslambda.Runtime_GO_1_X(),
		Handler: jsii.String("main"),
		Code:    awslambda.Code_FromAsset(jsii.String("../"), nil),
		Environment: &map[string]*string{
			"APP":                           jsii.String("prod"),
			"KICKABOUT_POSTGRES_DSN":        jsii.String(os.Getenv("KICKABOUT_POSTGRES_DSN")),
			"KICKABOUT_ADMIN_PASSWORD_HASH": jsii.String(os.Getenv("KICKABOUT_ADMIN_PASSWORD_HASH")),
		},
	})

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("KickaboutApiGateway"), &awsapigateway.LambdaRestApiProps{
		Handler: lambdaFn,
	})

	awscdk.NewCfnOutput(stack, jsii.String("ApiUrl"), &awscdk.CfnOutputProps{Value: api.Url()})

	return stack
}

func main() {
	app := awscdk.NewApp(nil)
	NewKickaboutStack(app, "KickaboutStack", &KickaboutStackProps{})
	app.Synth(nil)
}
