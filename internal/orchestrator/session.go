package orchestrator

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"

	"github.com/dillib/cloudbom/internal/errkind"
)

// defaultRegion is the region used to build the bootstrap session before a
// region-specific client is needed (e.g. to call sts.GetCallerIdentity).
const defaultRegion = "us-east-1"

// BuildSession constructs an AWS session for acct following spec §4.4's
// priority order: named profile, then direct access keys, then role
// assumption (optionally with an external id) via a default session, then a
// conventional cross-account role name built from acct.AccountID.
func BuildSession(acct AccountConfig) (*session.Session, error) {
	switch {
	case acct.Profile != "":
		sess, err := session.NewSessionWithOptions(session.Options{
			Profile:           acct.Profile,
			SharedConfigState: session.SharedConfigEnable,
			Config:            aws.Config{Region: aws.String(defaultRegion)},
		})
		if err != nil {
			return nil, errkind.Wrap(errkind.CredentialError, err, "failed to build profile session")
		}
		return sess, nil

	case acct.AccessKeyID != "" && acct.SecretAccessKey != "":
		sess, err := session.NewSession(&aws.Config{
			Region:      aws.String(defaultRegion),
			Credentials: credentials.NewStaticCredentials(acct.AccessKeyID, acct.SecretAccessKey, acct.SessionToken),
		})
		if err != nil {
			return nil, errkind.Wrap(errkind.CredentialError, err, "failed to build static-credential session")
		}
		return sess, nil

	case acct.RoleARN != "":
		return assumeRoleSession(acct.RoleARN, acct.ExternalID)

	case acct.CrossAccountRole != "":
		roleARN := fmt.Sprintf("arn:aws:iam::%s:role/%s", acct.AccountID, acct.CrossAccountRole)
		return assumeRoleSession(roleARN, acct.ExternalID)

	default:
		return nil, errkind.New(errkind.CredentialError, "no credential source configured for account "+acct.AccountID)
	}
}

func assumeRoleSession(roleARN, externalID string) (*session.Session, error) {
	base, err := session.NewSession(&aws.Config{Region: aws.String(defaultRegion)})
	if err != nil {
		return nil, errkind.Wrap(errkind.CredentialError, err, "failed to build base session for role assumption")
	}

	provider := stscreds.NewCredentials(base, roleARN, func(p *stscreds.AssumeRoleProvider) {
		if externalID != "" {
			p.ExternalID = aws.String(externalID)
		}
	})

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(defaultRegion),
		Credentials: provider,
	})
	if err != nil {
		return nil, errkind.Wrap(errkind.CredentialError, err, "failed to build assumed-role session")
	}
	return sess, nil
}

// CallerIdentity is the subset of sts.GetCallerIdentity's response the
// Probing transition needs.
type CallerIdentity struct {
	AccountID string
	ARN       string
}

// GetCallerIdentity obtains the account identity behind sess (spec §4.4
// "Authenticating→Probing": obtain caller identity).
func GetCallerIdentity(sess *session.Session) (CallerIdentity, error) {
	client := sts.New(sess)
	out, err := client.GetCallerIdentity(&sts.GetCallerIdentityInput{})
	if err != nil {
		return CallerIdentity{}, errkind.Wrap(errkind.CredentialError, err, "failed to get caller identity")
	}
	var id CallerIdentity
	if out.Account != nil {
		id.AccountID = *out.Account
	}
	if out.Arn != nil {
		id.ARN = *out.Arn
	}
	return id, nil
}
