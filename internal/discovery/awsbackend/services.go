package awsbackend

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
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

func (b *Backend) discoverEC2(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := ec2.New(b.session, cfg)
	switch operation {
	case "DescribeInstances":
		out, err := client.DescribeInstancesWithContext(ctx, &ec2.DescribeInstancesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		var flat []*ec2.Instance
		for _, r := range out.Reservations {
			flat = append(flat, r.Instances...)
		}
		return marshalItems(operation, flat)
	case "DescribeVpcs":
		out, err := client.DescribeVpcsWithContext(ctx, &ec2.DescribeVpcsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Vpcs)
	case "DescribeSubnets":
		out, err := client.DescribeSubnetsWithContext(ctx, &ec2.DescribeSubnetsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Subnets)
	case "DescribeSecurityGroups":
		out, err := client.DescribeSecurityGroupsWithContext(ctx, &ec2.DescribeSecurityGroupsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.SecurityGroups)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown ec2 operation "+operation)
	}
}

func (b *Backend) discoverS3(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := s3.New(b.session, cfg)
	switch operation {
	case "ListBuckets":
		out, err := client.ListBucketsWithContext(ctx, &s3.ListBucketsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Buckets)
	case "GetBucketLocation":
		// Not a listing call: the real per-bucket lookup is BucketLocation,
		// invoked by DetectRegion during normalization, not through Discover.
		return nil, nil
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown s3 operation "+operation)
	}
}

// BucketLocation issues the per-bucket region lookup spec §4.2's
// requires_region_detection names for S3: it takes a bucket name rather
// than a (service,region) pair, so it is reached through DetectRegion
// rather than through Discover's generic call path.
func (b *Backend) BucketLocation(ctx context.Context, bucket string) (string, error) {
	client := s3.New(b.session, aws.NewConfig())
	out, err := client.GetBucketLocationWithContext(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(bucket)})
	if err != nil {
		return "", classifyAWSErr(err)
	}
	if out.LocationConstraint == nil || *out.LocationConstraint == "" {
		return "us-east-1", nil
	}
	return *out.LocationConstraint, nil
}

// DetectRegion implements discovery.RegionDetector: the one second-lookup
// case in the AWS backend is S3's bucket->location call. Every other
// service's listing region is already authoritative, so this returns it
// unchanged.
func (b *Backend) DetectRegion(ctx context.Context, service string, res discovery.Resource) (string, error) {
	if service != "s3" {
		return res.Region, nil
	}
	return b.BucketLocation(ctx, res.ResourceID)
}

func (b *Backend) discoverRDS(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := rds.New(b.session, cfg)
	switch operation {
	case "DescribeDBInstances":
		out, err := client.DescribeDBInstancesWithContext(ctx, &rds.DescribeDBInstancesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.DBInstances)
	case "DescribeDBClusters":
		out, err := client.DescribeDBClustersWithContext(ctx, &rds.DescribeDBClustersInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.DBClusters)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown rds operation "+operation)
	}
}

func (b *Backend) discoverLambda(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := lambda.New(b.session, cfg)
	switch operation {
	case "ListFunctions":
		out, err := client.ListFunctionsWithContext(ctx, &lambda.ListFunctionsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Functions)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown lambda operation "+operation)
	}
}

func (b *Backend) discoverIAM(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := iam.New(b.session, cfg)
	switch operation {
	case "ListRoles":
		out, err := client.ListRolesWithContext(ctx, &iam.ListRolesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Roles)
	case "ListUsers":
		out, err := client.ListUsersWithContext(ctx, &iam.ListUsersInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Users)
	case "ListPolicies":
		out, err := client.ListPoliciesWithContext(ctx, &iam.ListPoliciesInput{Scope: aws.String("Local")})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Policies)
	case "ListGroups":
		out, err := client.ListGroupsWithContext(ctx, &iam.ListGroupsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Groups)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown iam operation "+operation)
	}
}

func (b *Backend) discoverCloudFront(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := cloudfront.New(b.session, cfg)
	switch operation {
	case "ListDistributions":
		out, err := client.ListDistributionsWithContext(ctx, &cloudfront.ListDistributionsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		if out.DistributionList == nil {
			return nil, nil
		}
		return marshalItems(operation, out.DistributionList.Items)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown cloudfront operation "+operation)
	}
}

func (b *Backend) discoverRoute53(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := route53.New(b.session, cfg)
	switch operation {
	case "ListHostedZones":
		out, err := client.ListHostedZonesWithContext(ctx, &route53.ListHostedZonesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.HostedZones)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown route53 operation "+operation)
	}
}

func (b *Backend) discoverECS(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := ecs.New(b.session, cfg)
	switch operation {
	case "ListClusters":
		out, err := client.ListClustersWithContext(ctx, &ecs.ListClustersInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.ClusterArns)
	case "ListServices":
		clusters, err := client.ListClustersWithContext(ctx, &ecs.ListClustersInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		var arns []*string
		for _, c := range clusters.ClusterArns {
			out, err := client.ListServicesWithContext(ctx, &ecs.ListServicesInput{Cluster: c})
			if err != nil {
				continue
			}
			arns = append(arns, out.ServiceArns...)
		}
		return marshalItems(operation, arns)
	case "ListTaskDefinitions":
		out, err := client.ListTaskDefinitionsWithContext(ctx, &ecs.ListTaskDefinitionsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.TaskDefinitionArns)
	case "ListContainerInstances":
		clusters, err := client.ListClustersWithContext(ctx, &ecs.ListClustersInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		var arns []*string
		for _, c := range clusters.ClusterArns {
			out, err := client.ListContainerInstancesWithContext(ctx, &ecs.ListContainerInstancesInput{Cluster: c})
			if err != nil {
				continue
			}
			arns = append(arns, out.ContainerInstanceArns...)
		}
		return marshalItems(operation, arns)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown ecs operation "+operation)
	}
}

func (b *Backend) discoverEKS(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := eks.New(b.session, cfg)
	switch operation {
	case "ListClusters":
		out, err := client.ListClustersWithContext(ctx, &eks.ListClustersInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Clusters)
	case "ListNodegroups", "ListFargateProfiles", "ListAddons":
		clusters, err := client.ListClustersWithContext(ctx, &eks.ListClustersInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		var names []*string
		for _, c := range clusters.Clusters {
			switch operation {
			case "ListNodegroups":
				out, err := client.ListNodegroupsWithContext(ctx, &eks.ListNodegroupsInput{ClusterName: c})
				if err == nil {
					names = append(names, out.Nodegroups...)
				}
			case "ListFargateProfiles":
				out, err := client.ListFargateProfilesWithContext(ctx, &eks.ListFargateProfilesInput{ClusterName: c})
				if err == nil {
					names = append(names, out.FargateProfileNames...)
				}
			case "ListAddons":
				out, err := client.ListAddonsWithContext(ctx, &eks.ListAddonsInput{ClusterName: c})
				if err == nil {
					names = append(names, out.Addons...)
				}
			}
		}
		return marshalItems(operation, names)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown eks operation "+operation)
	}
}

func (b *Backend) discoverElastiCache(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := elasticache.New(b.session, cfg)
	switch operation {
	case "DescribeCacheClusters":
		out, err := client.DescribeCacheClustersWithContext(ctx, &elasticache.DescribeCacheClustersInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.CacheClusters)
	case "DescribeReplicationGroups":
		out, err := client.DescribeReplicationGroupsWithContext(ctx, &elasticache.DescribeReplicationGroupsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.ReplicationGroups)
	case "DescribeCacheSubnetGroups":
		out, err := client.DescribeCacheSubnetGroupsWithContext(ctx, &elasticache.DescribeCacheSubnetGroupsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.CacheSubnetGroups)
	case "DescribeCacheParameterGroups":
		out, err := client.DescribeCacheParameterGroupsWithContext(ctx, &elasticache.DescribeCacheParameterGroupsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.CacheParameterGroups)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown elasticache operation "+operation)
	}
}

func (b *Backend) discoverSNS(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := sns.New(b.session, cfg)
	switch operation {
	case "ListTopics":
		out, err := client.ListTopicsWithContext(ctx, &sns.ListTopicsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Topics)
	case "ListSubscriptions":
		out, err := client.ListSubscriptionsWithContext(ctx, &sns.ListSubscriptionsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Subscriptions)
	case "ListPlatformApplications":
		out, err := client.ListPlatformApplicationsWithContext(ctx, &sns.ListPlatformApplicationsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.PlatformApplications)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown sns operation "+operation)
	}
}

func (b *Backend) discoverSQS(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := sqs.New(b.session, cfg)
	switch operation {
	case "ListQueues":
		out, err := client.ListQueuesWithContext(ctx, &sqs.ListQueuesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.QueueUrls)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown sqs operation "+operation)
	}
}

func (b *Backend) discoverDynamoDB(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := dynamodb.New(b.session, cfg)
	switch operation {
	case "ListTables":
		out, err := client.ListTablesWithContext(ctx, &dynamodb.ListTablesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.TableNames)
	case "ListBackups":
		out, err := client.ListBackupsWithContext(ctx, &dynamodb.ListBackupsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.BackupSummaries)
	case "ListGlobalTables":
		out, err := client.ListGlobalTablesWithContext(ctx, &dynamodb.ListGlobalTablesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.GlobalTables)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown dynamodb operation "+operation)
	}
}

func (b *Backend) discoverAPIGateway(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := apigateway.New(b.session, cfg)
	switch operation {
	case "GetRestApis":
		out, err := client.GetRestApisWithContext(ctx, &apigateway.GetRestApisInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Items)
	case "GetDomainNames":
		out, err := client.GetDomainNamesWithContext(ctx, &apigateway.GetDomainNamesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Items)
	case "GetApiKeys":
		out, err := client.GetApiKeysWithContext(ctx, &apigateway.GetApiKeysInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Items)
	case "GetUsagePlans":
		out, err := client.GetUsagePlansWithContext(ctx, &apigateway.GetUsagePlansInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Items)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown apigateway operation "+operation)
	}
}

func (b *Backend) discoverCloudFormation(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := cloudformation.New(b.session, cfg)
	switch operation {
	case "ListStacks":
		out, err := client.ListStacksWithContext(ctx, &cloudformation.ListStacksInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.StackSummaries)
	case "ListStackSets":
		out, err := client.ListStackSetsWithContext(ctx, &cloudformation.ListStackSetsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Summaries)
	case "ListChangeSets":
		return nil, nil
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown cloudformation operation "+operation)
	}
}

func (b *Backend) discoverCodePipeline(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := codepipeline.New(b.session, cfg)
	switch operation {
	case "ListPipelines":
		out, err := client.ListPipelinesWithContext(ctx, &codepipeline.ListPipelinesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Pipelines)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown codepipeline operation "+operation)
	}
}

func (b *Backend) discoverCodeBuild(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := codebuild.New(b.session, cfg)
	switch operation {
	case "ListProjects":
		out, err := client.ListProjectsWithContext(ctx, &codebuild.ListProjectsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Projects)
	case "ListBuilds":
		out, err := client.ListBuildsWithContext(ctx, &codebuild.ListBuildsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Ids)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown codebuild operation "+operation)
	}
}

func (b *Backend) discoverSecretsManager(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := secretsmanager.New(b.session, cfg)
	switch operation {
	case "ListSecrets":
		out, err := client.ListSecretsWithContext(ctx, &secretsmanager.ListSecretsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.SecretList)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown secretsmanager operation "+operation)
	}
}

func (b *Backend) discoverSSM(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := ssm.New(b.session, cfg)
	switch operation {
	case "DescribeParameters":
		out, err := client.DescribeParametersWithContext(ctx, &ssm.DescribeParametersInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Parameters)
	case "ListDocuments":
		out, err := client.ListDocumentsWithContext(ctx, &ssm.ListDocumentsInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.DocumentIdentifiers)
	case "DescribePatchBaselines":
		out, err := client.DescribePatchBaselinesWithContext(ctx, &ssm.DescribePatchBaselinesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.BaselineIdentities)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown ssm operation "+operation)
	}
}

func (b *Backend) discoverKMS(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := kms.New(b.session, cfg)
	switch operation {
	case "ListKeys":
		out, err := client.ListKeysWithContext(ctx, &kms.ListKeysInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Keys)
	case "ListAliases":
		out, err := client.ListAliasesWithContext(ctx, &kms.ListAliasesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.Aliases)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown kms operation "+operation)
	}
}

func (b *Backend) discoverACM(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := acm.New(b.session, cfg)
	switch operation {
	case "ListCertificates":
		out, err := client.ListCertificatesWithContext(ctx, &acm.ListCertificatesInput{})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.CertificateSummaryList)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown acm operation "+operation)
	}
}

func (b *Backend) discoverWAFv2(ctx context.Context, cfg *aws.Config, operation string) ([]discovery.RawItem, error) {
	client := wafv2.New(b.session, cfg)
	scope := aws.String(wafv2.ScopeRegional)
	if aws.StringValue(cfg.Region) == b.GlobalRegion() {
		scope = aws.String(wafv2.ScopeCloudfront)
	}
	switch operation {
	case "ListWebACLs":
		out, err := client.ListWebACLsWithContext(ctx, &wafv2.ListWebACLsInput{Scope: scope})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.WebACLs)
	case "ListRuleGroups":
		out, err := client.ListRuleGroupsWithContext(ctx, &wafv2.ListRuleGroupsInput{Scope: scope})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.RuleGroups)
	case "ListIPSets":
		out, err := client.ListIPSetsWithContext(ctx, &wafv2.ListIPSetsInput{Scope: scope})
		if err != nil {
			return nil, classifyAWSErr(err)
		}
		return marshalItems(operation, out.IPSets)
	default:
		return nil, errkind.New(errkind.UnexpectedError, "unknown wafv2 operation "+operation)
	}
}
