package testutil

// PipelineHCL is a complete two-stage pipeline file used across tests.
const PipelineHCL = `
pipeline "orders" {
  repository  = "acme/orders"
  branch      = "main"
  account     = "111111111111"
  region      = "eu-west-1"
  application = "orders-bg"
}

build {
  registry_repository = "orders"
  environment = {
    SERVICE = upper(pipeline.name)
  }
}

configure {
  execution_role = "arn:aws:iam::111111111111:role/orders-exec"
  task_family    = "orders"
}

stage "dev" {
  account           = "222222222222"
  region            = pipeline.region
  deployment_policy = "Canary10Percent5Minutes"
}

stage "prod" {
  account           = "333333333333"
  region            = "us-east-1"
  deployment_policy = "CodeDeployDefault.ECSLinear10PercentEvery3Minutes"
  approval_wait     = "45m"
}
`
