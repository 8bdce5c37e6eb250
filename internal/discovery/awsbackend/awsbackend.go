// Package awsbackend is the primary CloudBackend: full-service discovery
// against the AWS SDK v1, covering every service in the Field Mapper's
// pattern table. Its Client method returns clients for ec2, s3, rds, lambda
// and iam only, so the reflection-based generic fallback finds no client,
// and no operations, for any other service.
package awsbackend

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/acm"
	"github.com/aws/aws-sdk-go/service/apigateway"
	"github.com/aws/aws-sdk-go/service/cloudformation"
	"github.com/aws/aws-sdk-go/service/cloudfront"
	"github.com/aws/aws-sdk-go/service/codebuild"
	"github.com/aws/aws-sdk-go/service/codepipeline"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/ec2"
	"github.com/aws/aws-sdk-go/service/ecs"
	"github.com/aws/aws-sdk-go/service/eks"
	"github.com/aws/aws-sdk-go/service/elasticache"
	"github.com/aws/aws-sdk-go/service/iam"
	"github.com/aws/aws-sdk-go/service/kms"
	"github.com/aws/aws-sdk-go/service/lambda"
	"github.com/aws/aws-sdk-go/service/rds"
	"github.com/aws/aws-sdk-go/service/route53"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/ssm"
	"github.com/aws/aws-sdk-go/service/wafv2"

	"github.com/dillib/cloudbom/internal/discovery"
	"github.com/dillib/cloudbom/internal/errkind"
)

// services is the full list this backend can discover, in the same order
// the Field Mapper's pattern table declares them.
var services = []string{
	"cloudfront", "iam", "route53", "s3", "lambda", "ec2", "rds",
	"ecs", "eks", "elasticache", "sns", "sqs", "dynamodb", "apigateway",
	"cloudformation", "codepipeline", "codebuild", "secretsmanager",
	"ssm", "kms", "acm", "wafv2",
}

// Backend is the AWS CloudBackend. A session is built once per account and
// shared. Backend is stateless aside from the session: every Discover call
// builds a new typed SDK client for its service and region, and no client is
// cached, neither here nor in discovery.ProcessState.
type Backend struct {
	session *session.Session
}

// New builds a Backend from an already-authenticated session (spec §4.4
// builds the session; Discovery only consumes it).
func New(sess *session.Session) *Backend {
	return &Backend{session: sess}
}

func (b *Backend) Name() string          { return "aws" }
func (b *Backend) Services() []string    { return services }
func (b *Backend) GlobalRegion() string  { return "us-east-1" }

// Client returns a typed SDK client for service in the backend's session,
// for discovery.GenericOperations' reflection fallback. It covers ec2, s3,
// rds, lambda and iam only, all of which also have explicit dispatch below;
// every other service gets nil.
func (b *Backend) Client(service string) any {
	cfg := aws.NewConfig()
	switch service {
	case "ec2":
		return ec2.New(b.session, cfg)
	case "s3":
		return s3.New(b.session, cfg)
	case "rds":
		return rds.New(b.session, cfg)
	case "lambda":
		return lambda.New(b.session, cfg)
	case "iam":
		return iam.New(b.session, cfg)
	default:
		return nil
	}
}

// Discover dispatches a single (service, region, operation) call to the
// matching typed SDK client method and flattens its result list into
// RawItems. Every branch issues exactly one read-only listing call.
func (b *Backend) Discover(ctx context.Context, call discovery.CallParams) ([]discovery.RawItem, error) {
	cfg := aws.NewConfig().WithRegion(call.Region)

	switch call.Service {
	case "ec2":
		return b.discoverEC2(ctx, cfg, call.Operation)
	case "s3":
		return b.discoverS3(ctx, cfg, call.Operation)
	case "rds":
		return b.discoverRDS(ctx, cfg, call.Operation)
	case "lambda":
		return b.discoverLambda(ctx, cfg, call.Operation)
	case "iam":
		return b.discoverIAM(ctx, cfg, call.Operation)
	case "cloudfront":
		return b.discoverCloudFront(ctx, cfg, call.Operation)
	case "route53":
		return b.discoverRoute53(ctx, cfg, call.Operation)
	case "ecs":
		return b.discoverECS(ctx, cfg, call.Operation)
	case "eks":
		return b.discoverEKS(ctx, cfg, call.Operation)
	case "elasticache":
		return b.discoverElastiCache(ctx, cfg, call.Operation)
	case "sns":
		return b.discoverSNS(ctx, cfg, call.Operation)
	case "sqs":
		return b.discoverSQS(ctx, cfg, call.Operation)
	case "dynamodb":
		return b.discoverDynamoDB(ctx, cfg, call.Operation)
	case "apigateway":
		return b.discoverAPIGateway(ctx, cfg, call.Operation)
	case "cloudformation":
		return b.discoverCloudFormation(ctx, cfg, call.Operation)
	case "codepipeline":
		return b.discoverCodePipeline(ctx, cfg, call.Operation)
	case "codebuild":
		return b.discoverCodeBuild(ctx, cfg, call.Operation)
	case "secretsmanager":
		return b.discoverSecretsManager(ctx, cfg, call.Operation)
	case "ssm":
		return b.discoverSSM(ctx, cfg, call.Operation)
	case "kms":
		return b.discoverKMS(ctx, cfg, call.Operation)
	case "acm":
		return b.discoverACM(ctx, cfg, call.Operation)
	case "wafv2":
		return b.discoverWAFv2(ctx, cfg, call.Operation)
	default:
		return b.discoverGeneric(call.Service, call.Operation)
	}
}

func (b *Backend) discoverGeneric(service, operation string) ([]discovery.RawItem, error) {
	client := b.Client(service)
	if client == nil {
		return nil, errkind.New(errkind.UnexpectedError, "no client available for "+service)
	}
	out, err := discovery.InvokeGeneric(client, operation)
	if err != nil {
		return nil, errkind.Wrap(errkind.UnexpectedError, err, "generic invoke failed")
	}
	return itemsFromSlicePointer(operation, out)
}

// itemsFromSlicePointer marshals every element of a field on the generic
// fallback's output struct whose kind is a slice. AWS SDK v1 list outputs
// always carry exactly one slice field of interest.
func itemsFromSlicePointer(operation string, out any) ([]discovery.RawItem, error) {
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for _, v := range fields {
		var list []json.RawMessage
		if err := json.Unmarshal(v, &list); err == nil && list != nil {
			items := make([]discovery.RawItem, 0, len(list))
			for _, elem := range list {
				items = append(items, discovery.RawItem{Operation: operation, Payload: elem})
			}
			return items, nil
		}
	}
	return nil, nil
}

func marshalItems(operation string, values any) ([]discovery.RawItem, error) {
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	items := make([]discovery.RawItem, 0, len(list))
	for _, elem := range list {
		items = append(items, discovery.RawItem{Operation: operation, Payload: elem})
	}
	return items, nil
}

func classifyAWSErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case containsAny(msg, "AccessDenied", "UnauthorizedOperation", "AuthorizationError"):
		return errkind.Wrap(errkind.PermissionDenied, err, "permission denied")
	case containsAny(msg, "Throttling", "RequestLimitExceeded", "TooManyRequestsException"):
		return errkind.Wrap(errkind.Throttled, err, "throttled")
	case containsAny(msg, "RequestError", "timeout", "connection reset"):
		return errkind.Wrap(errkind.Transient, err, "transient network error")
	default:
		return errkind.Wrap(errkind.UnexpectedError, err, "unexpected AWS error")
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if len(sub) > 0 && len(s) >= len(sub) {
			for i := 0; i+len(sub) <= len(s); i++ {
				if s[i:i+len(sub)] == sub {
					return true
				}
			}
		}
	}
	return false
}
